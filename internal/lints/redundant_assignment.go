package lints

import (
	"sort"
	"strings"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// redundantAssignment reports Y = X where Y is a fresh variable bound to
// another variable, and offers to inline Y everywhere.
func redundantAssignment(bag *diag.Bag, sema *Sema) {
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		for _, clauseID := range body.TopClauses {
			occ := CollectClauseVars(body, clauseID)
			hir.FoldClause(body, hir.TopDown, clauseID, struct{}{},
				func(acc struct{}, ctx hir.ExprCtx) struct{} {
					if ctx.InMacro.IsValid() {
						return acc
					}
					match, ok := ctx.Expr.Data.(hir.MatchData)
					if !ok {
						return acc
					}
					checkRedundantAssignment(bag, sema, body, occ, ctx.ID, match)
					return acc
				},
				func(acc struct{}, ctx hir.PatCtx) struct{} { return acc })
		}
	})
}

func checkRedundantAssignment(bag *diag.Bag, sema *Sema, body *hir.Body, occ *VarOccurrences, exprID hir.ExprID, match hir.MatchData) {
	lhs := body.Pat(match.Lhs)
	rhs := body.Expr(match.Rhs)
	if lhs == nil || rhs == nil {
		return
	}
	lhsVar, ok := lhs.Data.(hir.PatVarData)
	if !ok {
		return
	}
	rhsVar, ok := rhs.Data.(hir.VarData)
	if !ok {
		return
	}
	if lhsVar.Name == rhsVar.Name {
		// X = X — это trivial-match, не redundant assignment
		return
	}
	name := sema.AtomText(lhsVar.Name)
	if strings.HasPrefix(name, "_") {
		return
	}
	// Y должен определяться только здесь и иметь использования: без
	// использований подставлять нечего.
	if len(occ.Defs[lhsVar.Name]) != 1 {
		return
	}
	uses := occ.Uses[lhsVar.Name]
	if len(uses) == 0 {
		return
	}

	span, ok := body.SourceMap.ExprSpan(exprID)
	if !ok {
		return
	}
	rhsSpan, ok := body.SourceMap.ExprSpan(match.Rhs)
	if !ok {
		return
	}
	newName := sema.Text(rhsSpan)
	if newName == "" {
		return
	}

	// Фикс переименовывает каждое вхождение Y в правую часть: и само
	// определение, и все использования.
	var edits []diag.TextEdit
	if defSpan, ok := body.SourceMap.PatSpan(match.Lhs); ok {
		edits = append(edits, diag.TextEdit{Span: defSpan, NewText: newName, OldText: name})
	}
	for _, use := range uses {
		if useSpan, ok := body.SourceMap.ExprSpan(use); ok {
			edits = append(edits, diag.TextEdit{Span: useSpan, NewText: newName, OldText: name})
		}
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Span.Start < edits[j].Span.Start })

	d := diag.New(diag.RedundantAssignment, span, "assignment is redundant").
		WithSeverity(diag.SevWeakWarning).
		WithFix("remove_redundant_assignment", "Use right-hand of assignment everywhere", edits...)
	bag.Add(d)
}
