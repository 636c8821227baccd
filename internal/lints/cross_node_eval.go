package lints

import (
	"fmt"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// crossNodeEvalTargets lists remote entry points that evaluate code on
// another node.
var crossNodeEvalTargets = map[string]map[string]bool{
	"rpc": {
		"call":            true,
		"multicall":       true,
		"cast":            true,
		"eval_everywhere": true,
		"block_call":      true,
		"async_call":      true,
	},
	"erpc": {
		"call":      true,
		"multicall": true,
		"cast":      true,
	},
}

// crossNodeEval reports production calls that execute code on remote
// nodes.
func crossNodeEval(bag *diag.Bag, sema *Sema) {
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				call, ok := ctx.Expr.Data.(hir.CallData)
				if !ok {
					return acc
				}
				module, fun, ok := remoteCallTarget(sema, body, call)
				if !ok {
					return acc
				}
				funs, ok := crossNodeEvalTargets[module]
				if !ok || !funs[fun] {
					return acc
				}
				span, ok := body.SourceMap.ExprSpan(ctx.ID)
				if !ok {
					return acc
				}
				bag.Add(diag.Warning(diag.CrossNodeEval, span,
					fmt.Sprintf("Production code must not use cross node eval (%s:%s/%d)", module, fun, len(call.Args))))
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} { return acc })
	})
}
