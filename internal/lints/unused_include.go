package lints

import (
	"fmt"
	"path"

	"beamlint/internal/ast"
	"beamlint/internal/diag"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// unusedIncludes reports -include / -include_lib attributes whose
// definitions (macros, records, types) are never referenced from the
// including file.
func unusedIncludes(bag *diag.Bag, sema *Sema) {
	fl := sema.FormList()

	var includes []struct {
		id  hir.FormID
		inc *ast.IncludeAttr
	}
	fl.Includes(func(id hir.FormID, inc *ast.IncludeAttr) {
		includes = append(includes, struct {
			id  hir.FormID
			inc *ast.IncludeAttr
		}{id, inc})
	})
	if len(includes) == 0 {
		return
	}

	usedMacros := make(map[string]bool)
	usedRecords := make(map[source.AtomID]bool)
	sema.EachFunctionBody(func(_ *hir.FunctionDef, body *hir.Body) {
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				switch data := ctx.Expr.Data.(type) {
				case hir.MacroCallData:
					usedMacros[sema.AtomText(data.Name)] = true
				case hir.RecordData:
					usedRecords[data.Name] = true
				case hir.RecordUpdateData:
					usedRecords[data.Name] = true
				case hir.RecordFieldData:
					usedRecords[data.Name] = true
				case hir.RecordIndexData:
					usedRecords[data.Name] = true
				}
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} {
				switch data := ctx.Pat.Data.(type) {
				case hir.PatMacroCallData:
					usedMacros[sema.AtomText(data.Name)] = true
				case hir.PatRecordData:
					usedRecords[data.Name] = true
				case hir.PatRecordIndexData:
					usedRecords[data.Name] = true
				}
				return acc
			})
	})

	for _, entry := range includes {
		included, ok := sema.Snap.ResolveInclude(sema.File, entry.inc)
		if !ok {
			// неразрешённый include не считаем неиспользуемым
			continue
		}
		incDefs := sema.Snap.DefMap(included)
		used := false
		for _, m := range incDefs.Macros {
			if usedMacros[m.Name] {
				used = true
				break
			}
		}
		if !used {
			for name := range incDefs.Records {
				if usedRecords[name] {
					used = true
					break
				}
			}
		}
		if !used && len(incDefs.Macros) == 0 && len(incDefs.Records) == 0 && len(incDefs.Types) == 0 {
			// заголовок без определений: судить не о чем
			continue
		}
		if used {
			continue
		}
		bag.Add(diag.Warning(
			diag.UnusedInclude,
			entry.inc.Rng,
			fmt.Sprintf("Unused file: %s", path.Base(entry.inc.Path)),
		))
	}
}
