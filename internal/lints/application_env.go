package lints

import (
	"fmt"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// applicationEnv reports application:get_env calls that read the
// environment of a different application than the one owning the file.
func applicationEnv(bag *diag.Bag, sema *Sema) {
	ownApp := sema.Snap.AppName(sema.File)
	if ownApp == "" {
		return
	}
	sema.EachFunctionBody(func(def *hir.FunctionDef, body *hir.Body) {
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				call, ok := ctx.Expr.Data.(hir.CallData)
				if !ok {
					return acc
				}
				if !isRemoteCallTo(sema, body, call, "application", "get_env") {
					return acc
				}
				if len(call.Args) < 2 {
					// get_env/1 читает своё приложение
					return acc
				}
				appArg := body.Expr(call.Args[0])
				if appArg == nil {
					return acc
				}
				lit, ok := appArg.Data.(hir.Literal)
				if !ok || lit.Kind != hir.LiteralAtom {
					return acc
				}
				appName := sema.AtomText(lit.Atom)
				if appName == ownApp {
					return acc
				}
				span, ok := body.SourceMap.ExprSpan(ctx.ID)
				if !ok {
					return acc
				}
				bag.Add(diag.New(diag.ApplicationGetEnv, span,
					fmt.Sprintf("application:get_env/%d references '%s', which is not the application of this module ('%s')",
						len(call.Args), appName, ownApp)).
					WithSeverity(diag.SevWeakWarning))
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} { return acc })
	})
}

// isRemoteCallTo reports whether the call targets the given M:F.
func isRemoteCallTo(sema *Sema, body *hir.Body, call hir.CallData, module, fun string) bool {
	if !call.Target.Module.IsValid() {
		return false
	}
	m := body.Expr(call.Target.Module)
	f := body.Expr(call.Target.Name)
	if m == nil || f == nil {
		return false
	}
	mLit, ok := m.Data.(hir.Literal)
	if !ok || mLit.Kind != hir.LiteralAtom || sema.AtomText(mLit.Atom) != module {
		return false
	}
	fLit, ok := f.Data.(hir.Literal)
	if !ok || fLit.Kind != hir.LiteralAtom {
		return false
	}
	return fun == "" || sema.AtomText(fLit.Atom) == fun
}

// remoteCallTarget extracts the atom module and function of a call.
func remoteCallTarget(sema *Sema, body *hir.Body, call hir.CallData) (string, string, bool) {
	if !call.Target.Module.IsValid() {
		return "", "", false
	}
	m := body.Expr(call.Target.Module)
	f := body.Expr(call.Target.Name)
	if m == nil || f == nil {
		return "", "", false
	}
	mLit, okM := m.Data.(hir.Literal)
	fLit, okF := f.Data.(hir.Literal)
	if !okM || !okF || mLit.Kind != hir.LiteralAtom || fLit.Kind != hir.LiteralAtom {
		return "", "", false
	}
	return sema.AtomText(mLit.Atom), sema.AtomText(fLit.Atom), true
}
