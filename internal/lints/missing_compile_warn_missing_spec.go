package lints

import (
	"beamlint/internal/ast"
	"beamlint/internal/diag"
)

// missingCompileWarnMissingSpec nudges modules towards spec coverage by
// requiring the corresponding compile option.
func missingCompileWarnMissingSpec(bag *diag.Bag, sema *Sema) {
	fl := sema.FormList()
	moduleAttr, formID := fl.ModuleAttr()
	if !formID.IsValid() {
		return
	}
	for _, entry := range fl.Forms {
		compile, ok := entry.Form.(*ast.CompileAttr)
		if !ok {
			continue
		}
		if compileOptionsContain(compile.Options, "warn_missing_spec") ||
			compileOptionsContain(compile.Options, "warn_missing_spec_all") {
			return
		}
	}
	bag.Add(diag.New(diag.MissingCompileWarnMissingSpec, moduleAttr.Rng,
		"Please add \"-compile(warn_missing_spec).\" or \"-compile(warn_missing_spec_all).\" to the module. If exported functions are not all specced, they need to be specced.").
		WithSeverity(diag.SevWeakWarning))
}

// compileOptionsContain looks for an atom option, alone or in a list.
func compileOptionsContain(options ast.Expr, atom string) bool {
	switch n := ast.Unparen(options).(type) {
	case *ast.AtomLit:
		return n.Value == atom
	case *ast.ListExpr:
		for _, e := range n.Elems {
			if compileOptionsContain(e, atom) {
				return true
			}
		}
	case *ast.Tuple:
		for _, e := range n.Elems {
			if compileOptionsContain(e, atom) {
				return true
			}
		}
	}
	return false
}
