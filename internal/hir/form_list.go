package hir

import (
	"beamlint/internal/ast"
	"beamlint/internal/source"
)

// FormEntry couples a stable FormID with the parsed form. FormIDs follow
// source order and survive edits that do not reorder forms.
type FormEntry struct {
	ID   FormID
	Form ast.Form
}

// FormList is the per-file list of forms.
type FormList struct {
	File  source.FileID
	Forms []FormEntry
}

// NewFormList assigns stable ids to the forms of a parsed file.
func NewFormList(file *ast.File) *FormList {
	fl := &FormList{File: file.FileID}
	for i, form := range file.Forms {
		fl.Forms = append(fl.Forms, FormEntry{ID: FormID(i + 1), Form: form})
	}
	return fl
}

// Get returns the form for the id, or nil when out of range.
func (fl *FormList) Get(id FormID) ast.Form {
	if !id.IsValid() || int(id) > len(fl.Forms) {
		return nil
	}
	return fl.Forms[id-1].Form
}

// ModuleAttr returns the first -module attribute, if any.
func (fl *FormList) ModuleAttr() (*ast.ModuleAttr, FormID) {
	for _, e := range fl.Forms {
		if m, ok := e.Form.(*ast.ModuleAttr); ok {
			return m, e.ID
		}
	}
	return nil, NoFormID
}

// FunDecls calls fn for every function declaration in source order.
func (fl *FormList) FunDecls(fn func(FormID, *ast.FunDecl)) {
	for _, e := range fl.Forms {
		if d, ok := e.Form.(*ast.FunDecl); ok {
			fn(e.ID, d)
		}
	}
}

// Includes calls fn for every include attribute in source order.
func (fl *FormList) Includes(fn func(FormID, *ast.IncludeAttr)) {
	for _, e := range fl.Forms {
		if inc, ok := e.Form.(*ast.IncludeAttr); ok {
			fn(e.ID, inc)
		}
	}
}

// EnclosingForm returns the form whose range contains the offset.
func (fl *FormList) EnclosingForm(off uint32) (ast.Form, FormID) {
	for _, e := range fl.Forms {
		span := e.Form.Span()
		if off >= span.Start && off <= span.End {
			return e.Form, e.ID
		}
	}
	return nil, NoFormID
}
