package lints

import (
	"strconv"

	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// Usage is one reference to a definition.
type Usage struct {
	File source.FileID
	Span source.Span
}

// recordFieldKey addresses one record field.
type recordFieldKey struct {
	rec   source.AtomID
	field source.AtomID
}

// recordFieldIndex is the reverse index from record fields to their
// reference sites across the file's bodies.
type recordFieldIndex map[recordFieldKey][]Usage

// collectRecordFieldUsages builds the reverse index in one pass over all
// function bodies of the file.
func collectRecordFieldUsages(sema *Sema) recordFieldIndex {
	index := make(recordFieldIndex)
	add := func(rec, field source.AtomID, span source.Span, ok bool) {
		if !ok {
			return
		}
		key := recordFieldKey{rec: rec, field: field}
		index[key] = append(index[key], Usage{File: sema.File, Span: span})
	}

	sema.EachFunctionBody(func(_ *hir.FunctionDef, body *hir.Body) {
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				span, spanOK := body.SourceMap.ExprSpan(ctx.ID)
				switch data := ctx.Expr.Data.(type) {
				case hir.RecordData:
					for _, f := range data.Fields {
						add(data.Name, f.Field, span, spanOK)
					}
				case hir.RecordUpdateData:
					for _, f := range data.Fields {
						add(data.Name, f.Field, span, spanOK)
					}
				case hir.RecordFieldData:
					add(data.Name, data.Field, span, spanOK)
				case hir.RecordIndexData:
					add(data.Name, data.Field, span, spanOK)
				}
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} {
				span, spanOK := body.SourceMap.PatSpan(ctx.ID)
				switch data := ctx.Pat.Data.(type) {
				case hir.PatRecordData:
					for _, f := range data.Fields {
						add(data.Name, f.Field, span, spanOK)
					}
				case hir.PatRecordIndexData:
					add(data.Name, data.Field, span, spanOK)
				}
				return acc
			})
	})
	return index
}

// RecordFieldUsages returns every reference to rec.field from the file's
// bodies.
func RecordFieldUsages(sema *Sema, rec, field source.AtomID) []Usage {
	return collectRecordFieldUsages(sema)[recordFieldKey{rec: rec, field: field}]
}

// FunctionUsages returns the call and capture sites of a function within
// the file: локальные вызовы, вызовы через имя собственного модуля и
// капчуры fun name/arity.
func FunctionUsages(sema *Sema, name source.NameID) []Usage {
	na, ok := sema.Snap.Names().Lookup(name)
	if !ok {
		return nil
	}
	dm := sema.DefMap()
	var out []Usage

	matchAtom := func(body *hir.Body, id hir.ExprID, want source.AtomID) bool {
		node := body.Expr(id)
		if node == nil {
			return false
		}
		lit, ok := node.Data.(hir.Literal)
		return ok && lit.Kind == hir.LiteralAtom && lit.Atom == want
	}
	ownModule := func(body *hir.Body, id hir.ExprID) bool {
		if !id.IsValid() {
			return true // локальный вызов
		}
		if !dm.ModuleSet {
			return false
		}
		return matchAtom(body, id, sema.Snap.Atoms().Intern(dm.Module))
	}

	sema.EachFunctionBody(func(_ *hir.FunctionDef, body *hir.Body) {
		hir.FoldFunction(body, hir.TopDown, struct{}{},
			func(acc struct{}, ctx hir.ExprCtx) struct{} {
				switch data := ctx.Expr.Data.(type) {
				case hir.CallData:
					if uint32(len(data.Args)) != na.Arity {
						return acc
					}
					if !ownModule(body, data.Target.Module) || !matchAtom(body, data.Target.Name, na.Name) {
						return acc
					}
					if span, ok := body.SourceMap.ExprSpan(ctx.ID); ok {
						out = append(out, Usage{File: sema.File, Span: span})
					}
				case hir.CaptureFunData:
					if !ownModule(body, data.Target.Module) || !matchAtom(body, data.Target.Name, na.Name) {
						return acc
					}
					arity := body.Expr(data.Arity)
					if arity == nil {
						return acc
					}
					lit, isLit := arity.Data.(hir.Literal)
					if !isLit || lit.Kind != hir.LiteralInt {
						return acc
					}
					if parsed, err := strconv.ParseUint(lit.Text, 10, 32); err != nil || uint32(parsed) != na.Arity {
						return acc
					}
					if span, ok := body.SourceMap.ExprSpan(ctx.ID); ok {
						out = append(out, Usage{File: sema.File, Span: span})
					}
				}
				return acc
			},
			func(acc struct{}, ctx hir.PatCtx) struct{} { return acc })
	})
	return out
}
