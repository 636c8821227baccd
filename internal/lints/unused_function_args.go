package lints

import (
	"strings"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// unusedFunctionArgs reports clause parameters that are never referenced
// in their clause and offers the underscore prefix.
func unusedFunctionArgs(bag *diag.Bag, sema *Sema) {
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		for _, clauseID := range body.TopClauses {
			clause := body.Clause(clauseID)
			if clause == nil {
				continue
			}
			occ := CollectClauseVars(body, clauseID)
			for _, patID := range clause.Pats {
				reportUnusedParamVars(bag, sema, body, occ, patID)
			}
		}
	})
}

func reportUnusedParamVars(bag *diag.Bag, sema *Sema, body *hir.Body, occ *VarOccurrences, root hir.PatID) {
	hir.FoldPat(body, hir.TopDown, root, struct{}{},
		func(acc struct{}, ctx hir.ExprCtx) struct{} { return acc },
		func(acc struct{}, ctx hir.PatCtx) struct{} {
			v, ok := ctx.Pat.Data.(hir.PatVarData)
			if !ok {
				return acc
			}
			if !paramVarUnused(sema, occ, v.Name) {
				return acc
			}
			span, ok := body.SourceMap.PatSpan(ctx.ID)
			if !ok {
				return acc
			}
			name := sema.AtomText(v.Name)
			d := diag.New(diag.UnusedFunctionArg, span, "this variable is unused").
				WithSeverity(diag.SevWeakWarning).
				WithFix("prefix_with_underscore", "Prefix the variable name with an underscore", diag.TextEdit{
					Span:    span,
					NewText: "_" + name,
					OldText: name,
				})
			bag.Add(d)
			return acc
		})
}

func paramVarUnused(sema *Sema, occ *VarOccurrences, name source.AtomID) bool {
	text := sema.AtomText(name)
	if strings.HasPrefix(text, "_") {
		return false
	}
	if len(occ.Uses[name]) > 0 {
		return false
	}
	// Повторное появление в образце — это проверка на равенство,
	// то есть тоже использование.
	return len(occ.Defs[name]) == 1
}
