package lints

import (
	"fmt"
	"path"
	"strings"

	"beamlint/internal/diag"
)

// moduleMismatch reports a -module attribute that disagrees with the
// file name, offering to rename the attribute.
func moduleMismatch(bag *diag.Bag, sema *Sema) {
	attr, formID := sema.FormList().ModuleAttr()
	if !formID.IsValid() {
		return
	}
	filePath := sema.Snap.FilePath(sema.File)
	if filePath == "" {
		return
	}
	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	if attr.Name.Text == base {
		return
	}
	d := diag.Error(diag.ModuleMismatch, attr.Name.Rng,
		fmt.Sprintf("Module name (%s) does not match file name (%s)", attr.Name.Text, base)).
		WithFix("fix_module_mismatch", fmt.Sprintf("Rename module to '%s'", base), diag.TextEdit{
			Span:    attr.Name.Rng,
			NewText: base,
			OldText: attr.Name.Text,
		})
	bag.Add(d)
}
