package lints

import (
	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// effectFreeStatement reports statements that construct a value and
// discard it. Последнее выражение клаузы — её результат и не считается.
func effectFreeStatement(bag *diag.Bag, sema *Sema) {
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		for _, clauseID := range body.TopClauses {
			clause := body.Clause(clauseID)
			if clause == nil || len(clause.Exprs) < 2 {
				continue
			}
			for _, exprID := range clause.Exprs[:len(clause.Exprs)-1] {
				if !isEffectFree(body, exprID) {
					continue
				}
				span, ok := body.SourceMap.ExprSpan(exprID)
				if !ok {
					continue
				}
				bag.Add(diag.Warning(
					diag.StatementHasNoEffect,
					span,
					"this statement has no effect",
				))
			}
		}
	})
}

// isEffectFree reports whether evaluating the expression can neither
// side-effect nor fail in a way the author plausibly intended.
func isEffectFree(body *hir.Body, id hir.ExprID) bool {
	node := body.Expr(id)
	if node == nil {
		return false
	}
	switch data := node.Data.(type) {
	case hir.Literal, hir.VarData, hir.RecordIndexData:
		return true
	case hir.TupleData:
		for _, e := range data.Exprs {
			if !isEffectFree(body, e) {
				return false
			}
		}
		return true
	case hir.ListData:
		for _, e := range data.Exprs {
			if !isEffectFree(body, e) {
				return false
			}
		}
		return !data.Tail.IsValid() || isEffectFree(body, data.Tail)
	case hir.RecordData:
		for _, f := range data.Fields {
			if !isEffectFree(body, f.Value) {
				return false
			}
		}
		return true
	case hir.MapData:
		for _, f := range data.Fields {
			if !isEffectFree(body, f.Key) || !isEffectFree(body, f.Value) {
				return false
			}
		}
		return true
	case hir.ParenData:
		return isEffectFree(body, data.Expr)
	default:
		return false
	}
}
