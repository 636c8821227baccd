package lints

import (
	"fmt"

	"beamlint/internal/diag"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// unusedRecordField warns on record fields that are never referenced from
// any body in the file. Проверяются только записи, определённые в самом
// модуле, не в заголовочных файлах.
func unusedRecordField(bag *diag.Bag, sema *Sema, ext string) {
	if ext != "erl" {
		return
	}
	dm := sema.DefMap()
	if len(dm.Records) == 0 {
		return
	}

	usages := collectRecordFieldUsages(sema)

	dm.EachRecord(func(name source.AtomID, def *hir.RecordDef) {
		if def.File != sema.File {
			return
		}
		for _, field := range def.Fields {
			if len(usages[recordFieldKey{rec: name, field: field.Name}]) > 0 {
				continue
			}
			combined := fmt.Sprintf("%s.%s", sema.AtomText(name), field.Text)
			bag.Add(diag.Warning(
				diag.UnusedRecordField,
				field.Span,
				fmt.Sprintf("Unused record field (%s)", combined),
			))
		}
	})
}
