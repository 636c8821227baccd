package lints

import (
	"beamlint/internal/ast"
	"beamlint/internal/diag"
)

// missingModuleDefinition reports the first real form of a module that
// appears before any -module attribute. Препроцессорные формы и -file
// пропускаются.
func missingModuleDefinition(bag *diag.Bag, sema *Sema) {
	for _, entry := range sema.FormList().Forms {
		switch entry.Form.(type) {
		case *ast.ModuleAttr:
			return
		default:
			if ast.IsPreprocessor(entry.Form) {
				continue
			}
			bag.Add(diag.Error(diag.MissingModule, entry.Form.Span(), "no module definition"))
			return
		}
	}
}
