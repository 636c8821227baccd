package lints

import (
	"fmt"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// ctCallbacks are common_test callbacks that are reachable by contract.
var ctCallbacks = map[string]bool{
	"all":               true,
	"groups":            true,
	"suite":             true,
	"init_per_suite":    true,
	"end_per_suite":     true,
	"init_per_group":    true,
	"end_per_group":     true,
	"init_per_testcase": true,
	"end_per_testcase":  true,
}

// unreachableTest reports test-case functions of a *_SUITE module that
// are not mentioned from all/0 or groups/0.
func unreachableTest(bag *diag.Bag, sema *Sema) {
	dm := sema.DefMap()
	names := sema.Snap.Names()

	reachable := make(map[string]bool)
	collectAtoms := func(def *hir.FunctionDef) {
		body := sema.Body(def.Form)
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				if lit, ok := ctx.Expr.Data.(hir.Literal); ok && lit.Kind == hir.LiteralAtom {
					reachable[sema.AtomText(lit.Atom)] = true
				}
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} {
				if litPat, ok := ctx.Pat.Data.(hir.PatLiteralData); ok && litPat.Lit.Kind == hir.LiteralAtom {
					reachable[sema.AtomText(litPat.Lit.Atom)] = true
				}
				return acc
			})
	}

	haveRoots := false
	dm.EachFunction(func(_ source.NameID, def *hir.FunctionDef) {
		na, ok := names.Lookup(def.Name)
		if !ok {
			return
		}
		name := sema.AtomText(na.Name)
		if (name == "all" || name == "groups") && na.Arity == 0 {
			collectAtoms(def)
			haveRoots = true
		}
	})
	if !haveRoots {
		// без all/0 и groups/0 судить о достижимости нельзя
		return
	}

	dm.EachFunction(func(_ source.NameID, def *hir.FunctionDef) {
		na, ok := names.Lookup(def.Name)
		if !ok || na.Arity != 1 {
			return
		}
		name := sema.AtomText(na.Name)
		if ctCallbacks[name] || reachable[name] {
			return
		}
		if len(def.Decl.Clauses) == 0 {
			return
		}
		bag.Add(diag.Warning(
			diag.UnreachableTest,
			def.Decl.Clauses[0].Name.Rng,
			fmt.Sprintf("Unreachable test (%s/%d)", name, na.Arity),
		))
	})
}
