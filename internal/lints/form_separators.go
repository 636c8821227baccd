package lints

import (
	"fmt"

	"beamlint/internal/ast"
	"beamlint/internal/diag"
	"beamlint/internal/source"
)

// formMissingSeparators reports missing commas and semicolons between
// sibling elements of forms: export entries, import funs, function
// clauses, type params, record fields.
func formMissingSeparators(bag *diag.Bag, sema *Sema) {
	for _, entry := range sema.FormList().Forms {
		switch form := entry.Form.(type) {
		case *ast.ExportAttr:
			reportMissingSeps(bag, form.Seps, ",", "missing_comma")
		case *ast.ImportAttr:
			reportMissingSeps(bag, form.Seps, ",", "missing_comma")
		case *ast.FunDecl:
			reportMissingSeps(bag, form.Seps, ";", "missing_semi")
		case *ast.TypeAlias:
			reportMissingSeps(bag, form.Seps, ",", "missing_comma")
		case *ast.RecordDecl:
			if !form.MacroUse && !form.NameSep.Present {
				addMissingSep(bag, form.NameSep.PrevSpan, ",", "missing_comma")
			}
			reportMissingSeps(bag, form.Seps, ",", "missing_comma")
		}
	}
}

func reportMissingSeps(bag *diag.Bag, seps []ast.SepInfo, item, code string) {
	for _, sep := range seps {
		if !sep.Present {
			addMissingSep(bag, sep.PrevSpan, item, code)
		}
	}
}

func addMissingSep(bag *diag.Bag, span source.Span, item, code string) {
	bag.Add(diag.Warning(
		diag.MissingSeparator(code),
		span,
		fmt.Sprintf("Missing '%s'", item),
	))
}
