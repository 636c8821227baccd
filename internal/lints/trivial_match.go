package lints

import (
	"strings"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// trivialMatch reports matches that cannot fail and bind nothing new,
// e.g. X = X or a = a, and offers to keep just the right-hand side.
func trivialMatch(bag *diag.Bag, sema *Sema) {
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				if ctx.InMacro.IsValid() {
					return acc
				}
				match, ok := ctx.Expr.Data.(hir.MatchData)
				if !ok {
					return acc
				}
				if !isTrivialMatch(sema, body, match) {
					return acc
				}
				span, ok := body.SourceMap.ExprSpan(ctx.ID)
				if !ok {
					return acc
				}
				rhsSpan, ok := body.SourceMap.ExprSpan(match.Rhs)
				if !ok {
					return acc
				}
				rhsText := sema.Text(rhsSpan)
				if rhsText == "" {
					return acc
				}
				d := diag.New(diag.TrivialMatch, span, "match is redundant").
					WithSeverity(diag.SevWeakWarning).
					WithFix("remove_trivial_match", "Remove redundant match", diag.TextEdit{
						Span:    span,
						NewText: rhsText,
					})
				bag.Add(d)
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} { return acc })
	})
}

// isTrivialMatch reports whether the pattern trivially matches the
// right-hand side: одинаковая переменная или равный литерал.
func isTrivialMatch(sema *Sema, body *hir.Body, match hir.MatchData) bool {
	lhs := body.Pat(match.Lhs)
	rhs := body.Expr(match.Rhs)
	if lhs == nil || rhs == nil {
		return false
	}
	switch pat := lhs.Data.(type) {
	case hir.PatVarData:
		if strings.HasPrefix(sema.AtomText(pat.Name), "_") {
			// _ = Expr — намеренный сброс значения
			return false
		}
		if v, ok := rhs.Data.(hir.VarData); ok {
			return pat.Name == v.Name
		}
	case hir.PatLiteralData:
		if lit, ok := rhs.Data.(hir.Literal); ok {
			return literalEqual(pat.Lit, lit)
		}
	}
	return false
}

func literalEqual(a, b hir.Literal) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == hir.LiteralAtom {
		return a.Atom == b.Atom
	}
	return a.Text == b.Text
}
