package lints

import (
	"fmt"
	"strings"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// mutableVariable reports a variable that is bound by one top-level match
// and then matched again by a later top-level match in the same clause.
// Такой код читается как мутация, а выполняется как сверка с образцом.
func mutableVariable(bag *diag.Bag, sema *Sema) {
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		for _, clauseID := range body.TopClauses {
			clause := body.Clause(clauseID)
			if clause == nil {
				continue
			}
			bound := make(map[string]bool)
			for _, exprID := range clause.Exprs {
				node := body.Expr(exprID)
				if node == nil {
					continue
				}
				match, ok := node.Data.(hir.MatchData)
				if !ok {
					continue
				}
				pat := body.Pat(match.Lhs)
				if pat == nil {
					continue
				}
				v, ok := pat.Data.(hir.PatVarData)
				if !ok {
					continue
				}
				name := sema.AtomText(v.Name)
				if strings.HasPrefix(name, "_") {
					continue
				}
				if !bound[name] {
					bound[name] = true
					continue
				}
				// Повторная сверка с уже связанной переменной: X = X
				// ловит trivial-match, здесь интересен новый RHS.
				if rhs := body.Expr(match.Rhs); rhs != nil {
					if rv, isVar := rhs.Data.(hir.VarData); isVar && rv.Name == v.Name {
						continue
					}
				}
				span, ok := body.SourceMap.PatSpan(match.Lhs)
				if !ok {
					continue
				}
				bag.Add(diag.Warning(
					diag.MutableVarBug,
					span,
					fmt.Sprintf("variable '%s' is already bound; this match can only check equality", name),
				))
			}
		}
	})
}
