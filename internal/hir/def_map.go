package hir

import (
	"beamlint/internal/ast"
	"beamlint/internal/source"
)

// FunctionDef describes one function definition in a file.
type FunctionDef struct {
	Name     source.NameID
	File     source.FileID
	Form     FormID
	Decl     *ast.FunDecl
	Exported bool
	HasSpec  bool
}

// RecordFieldDef describes one field of a record definition.
type RecordFieldDef struct {
	Name source.AtomID
	Text string
	Span source.Span
}

// RecordDef describes one record definition and its parts.
type RecordDef struct {
	Name   source.AtomID
	File   source.FileID
	Form   FormID
	Decl   *ast.RecordDecl
	Fields []RecordFieldDef
}

// MacroDef describes one -define.
type MacroDef struct {
	Name  string
	Arity int // -1 для object-like макросов
	File  source.FileID
	Form  FormID
	Decl  *ast.DefineDecl
}

// TypeDef describes one -type or -opaque definition.
type TypeDef struct {
	Name   source.NameID
	File   source.FileID
	Form   FormID
	Opaque bool
}

// DefMap is the per-file map from names to definitions.
type DefMap struct {
	File      source.FileID
	Module    string
	ModuleSet bool

	Functions map[source.NameID]*FunctionDef
	Records   map[source.AtomID]*RecordDef
	Macros    []*MacroDef
	Types     map[source.NameID]*TypeDef

	funOrder []source.NameID
	recOrder []source.AtomID
}

// BuildDefMap derives the definition map of a file from its form list.
func BuildDefMap(fl *FormList, atoms *source.Interner, names *source.NameTable) *DefMap {
	dm := &DefMap{
		File:      fl.File,
		Functions: make(map[source.NameID]*FunctionDef),
		Records:   make(map[source.AtomID]*RecordDef),
		Types:     make(map[source.NameID]*TypeDef),
	}

	exported := make(map[source.NameID]bool)
	specs := make(map[source.NameID]bool)

	for _, e := range fl.Forms {
		switch form := e.Form.(type) {
		case *ast.ExportAttr:
			if form.Types {
				continue
			}
			for _, entry := range form.Entries {
				exported[names.Intern(entry.Name, entry.Arity)] = true
			}
		case *ast.SpecAttr:
			specs[names.Intern(form.Name.Text, form.Arity)] = true
		}
	}

	for _, e := range fl.Forms {
		switch form := e.Form.(type) {
		case *ast.ModuleAttr:
			if !dm.ModuleSet {
				dm.Module = form.Name.Text
				dm.ModuleSet = true
			}
		case *ast.FunDecl:
			if len(form.Clauses) == 0 {
				continue
			}
			first := form.Clauses[0]
			arity, err := safeArity(len(first.Params))
			if err {
				continue
			}
			nameID := names.Intern(first.Name.Text, arity)
			if _, dup := dm.Functions[nameID]; dup {
				continue
			}
			dm.Functions[nameID] = &FunctionDef{
				Name:     nameID,
				File:     fl.File,
				Form:     e.ID,
				Decl:     form,
				Exported: exported[nameID],
				HasSpec:  specs[nameID],
			}
			dm.funOrder = append(dm.funOrder, nameID)
		case *ast.RecordDecl:
			if form.MacroUse {
				continue
			}
			nameID := atoms.Intern(form.Name.Text)
			if _, dup := dm.Records[nameID]; dup {
				continue
			}
			rec := &RecordDef{
				Name: nameID,
				File: fl.File,
				Form: e.ID,
				Decl: form,
			}
			for _, f := range form.Fields {
				rec.Fields = append(rec.Fields, RecordFieldDef{
					Name: atoms.Intern(f.Name.Text),
					Text: f.Name.Text,
					Span: f.Name.Rng,
				})
			}
			dm.Records[nameID] = rec
			dm.recOrder = append(dm.recOrder, nameID)
		case *ast.DefineDecl:
			arity := -1
			if form.Params != nil {
				arity = len(form.Params)
			}
			dm.Macros = append(dm.Macros, &MacroDef{
				Name:  form.Name.Text,
				Arity: arity,
				File:  fl.File,
				Form:  e.ID,
				Decl:  form,
			})
		case *ast.TypeAlias:
			arity, err := safeArity(len(form.Params))
			if err {
				continue
			}
			nameID := names.Intern(form.Name.Text, arity)
			if _, dup := dm.Types[nameID]; dup {
				continue
			}
			dm.Types[nameID] = &TypeDef{
				Name:   nameID,
				File:   fl.File,
				Form:   e.ID,
				Opaque: form.Opaque,
			}
		}
	}
	return dm
}

// EachFunction calls fn for every function definition in source order.
func (dm *DefMap) EachFunction(fn func(source.NameID, *FunctionDef)) {
	for _, id := range dm.funOrder {
		fn(id, dm.Functions[id])
	}
}

// EachRecord calls fn for every record definition in source order.
func (dm *DefMap) EachRecord(fn func(source.AtomID, *RecordDef)) {
	for _, id := range dm.recOrder {
		fn(id, dm.Records[id])
	}
}

// ResolveMacro finds the matching -define by name, preferring an exact
// arity match and falling back to the object-like form.
func (dm *DefMap) ResolveMacro(name string, arity int) *MacroDef {
	var objectLike *MacroDef
	for _, m := range dm.Macros {
		if m.Name != name {
			continue
		}
		if m.Arity == arity {
			return m
		}
		if m.Arity == -1 {
			objectLike = m
		}
	}
	if arity == -1 {
		return nil
	}
	return objectLike
}

func safeArity(n int) (uint32, bool) {
	if n < 0 || n > 255 {
		return 0, true
	}
	return uint32(n), false
}
