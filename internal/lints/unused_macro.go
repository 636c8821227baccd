package lints

import (
	"fmt"

	"beamlint/internal/ast"
	"beamlint/internal/diag"
	"beamlint/internal/hir"
)

// unusedMacro warns on -define forms never referenced from the same
// module. Заголовочные файлы не проверяются: их макросы видны извне.
func unusedMacro(bag *diag.Bag, sema *Sema, ext string) {
	if ext != "erl" {
		return
	}
	dm := sema.DefMap()
	if len(dm.Macros) == 0 {
		return
	}

	used := make(map[string]bool)
	note := func(name string) { used[name] = true }

	sema.EachFunctionBody(func(_ *hir.FunctionDef, body *hir.Body) {
		// Узел вызова макроса посещается и в развёрнутом виде: интересует
		// сам факт обращения к макросу.
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				if m, ok := ctx.Expr.Data.(hir.MacroCallData); ok {
					note(sema.AtomText(m.Name))
				}
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} {
				if m, ok := ctx.Pat.Data.(hir.PatMacroCallData); ok {
					note(sema.AtomText(m.Name))
				}
				return acc
			})
	})

	// Макросы могут употребляться и внутри других форм: -record(?NAME, ...).
	for _, entry := range sema.FormList().Forms {
		if rec, ok := entry.Form.(*ast.RecordDecl); ok && rec.MacroUse {
			note(rec.Name.Text)
		}
	}

	for _, m := range dm.Macros {
		if used[m.Name] {
			continue
		}
		if isPredefinedMacroGuard(sema, m) {
			continue
		}
		bag.Add(diag.Warning(
			diag.UnusedMacro,
			m.Decl.Name.Rng,
			fmt.Sprintf("Unused macro (%s)", m.Name),
		))
	}
}

// isPredefinedMacroGuard skips defines that exist only to be tested with
// -ifdef / -ifndef elsewhere.
func isPredefinedMacroGuard(sema *Sema, m *hir.MacroDef) bool {
	// Замены нет вовсе: -define(DEBUG). Типичный флаг условной компиляции.
	return m.Decl.Replacement == nil && m.Arity == -1
}
