package ast

import (
	"beamlint/internal/source"
)

// Node is implemented by every syntax element that occupies a text range.
type Node interface {
	Span() source.Span
}

// File is the parsed representation of one source file.
type File struct {
	FileID source.FileID
	Forms  []Form
	Errors []ParseError
}

// ParseError describes a syntax problem reported by the parser.
type ParseError struct {
	Range source.Span
	Msg   string
}

// Form is a top-level declaration: attribute, record, define, or function.
type Form interface {
	Node
	formNode()
}

// SepInfo records whether the separator between two sibling elements was
// present in the source. PrevSpan covers the element before the gap.
type SepInfo struct {
	Present  bool
	PrevSpan source.Span
}

// Name is an atom occurrence with its range.
type Name struct {
	Text string
	Rng  source.Span
}

// Span returns the text range of the name.
func (n Name) Span() source.Span { return n.Rng }

// NameArity is a name/arity reference such as an export entry.
type NameArity struct {
	Name  string
	Arity uint32
	Rng   source.Span
}

// Span returns the text range of the reference.
func (n NameArity) Span() source.Span { return n.Rng }

// ModuleAttr is the -module(Name) attribute.
type ModuleAttr struct {
	Name Name
	Rng  source.Span
}

// ExportAttr is -export([...]) or -export_type([...]).
type ExportAttr struct {
	Types   bool
	Entries []NameArity
	Seps    []SepInfo
	Rng     source.Span
}

// ImportAttr is -import(Mod, [...]).
type ImportAttr struct {
	Module  Name
	Entries []NameArity
	Seps    []SepInfo
	Rng     source.Span
}

// RecordField is one field of a record declaration.
type RecordField struct {
	Name    Name
	Default Expr // nil when absent
	Type    Expr // nil when absent
}

// RecordDecl is -record(Name, {fields}).
type RecordDecl struct {
	Name     Name
	Fields   []RecordField
	Seps     []SepInfo
	NameSep  SepInfo // comma between the record name and the field tuple
	Rng      source.Span
	MacroUse bool // -record(?NAME, ...) — name comes from a macro
}

// DefineDecl is -define(Name, Replacement) or -define(Name(Args), Replacement).
type DefineDecl struct {
	Name        Name
	Params      []Name // nil for object-like macros
	Replacement Expr   // nil when the replacement is not expression-shaped
	Rng         source.Span
}

// IncludeAttr is -include("...") or -include_lib("...").
type IncludeAttr struct {
	Lib  bool
	Path string
	Rng  source.Span
}

// TypeAlias is -type Name(Params) :: Def or -opaque ditto.
type TypeAlias struct {
	Opaque bool
	Name   Name
	Params []Name
	Seps   []SepInfo
	Def    Expr
	Rng    source.Span
}

// SpecAttr is -spec Name(Args) -> Ret constraints.
type SpecAttr struct {
	Name  Name
	Arity uint32
	Rng   source.Span
}

// FileAttr is -file("name", Line).
type FileAttr struct {
	Rng source.Span
}

// PPDirective is a preprocessor conditional: -ifdef, -ifndef, -else, -endif, -if, -elif, -undef.
type PPDirective struct {
	Kind string
	Rng  source.Span
}

// CompileAttr is -compile(Options).
type CompileAttr struct {
	Options Expr
	Rng     source.Span
}

// WildAttr is any other attribute: -behaviour(x), -author("..."), misspellings.
type WildAttr struct {
	Name Name
	Rng  source.Span
}

// FunClause is one clause of a function declaration.
type FunClause struct {
	Name   Name
	Params []Expr
	Guards [][]Expr
	Body   []Expr
	Rng    source.Span
}

// Span returns the text range of the clause.
func (c *FunClause) Span() source.Span { return c.Rng }

// FunDecl is a function declaration consisting of one or more clauses.
type FunDecl struct {
	Clauses []*FunClause
	Seps    []SepInfo
	Rng     source.Span
}

func (f *ModuleAttr) Span() source.Span  { return f.Rng }
func (f *ExportAttr) Span() source.Span  { return f.Rng }
func (f *ImportAttr) Span() source.Span  { return f.Rng }
func (f *RecordDecl) Span() source.Span  { return f.Rng }
func (f *DefineDecl) Span() source.Span  { return f.Rng }
func (f *IncludeAttr) Span() source.Span { return f.Rng }
func (f *TypeAlias) Span() source.Span   { return f.Rng }
func (f *SpecAttr) Span() source.Span    { return f.Rng }
func (f *FileAttr) Span() source.Span    { return f.Rng }
func (f *PPDirective) Span() source.Span { return f.Rng }
func (f *CompileAttr) Span() source.Span { return f.Rng }
func (f *WildAttr) Span() source.Span    { return f.Rng }
func (f *FunDecl) Span() source.Span     { return f.Rng }

func (*ModuleAttr) formNode()  {}
func (*ExportAttr) formNode()  {}
func (*ImportAttr) formNode()  {}
func (*RecordDecl) formNode()  {}
func (*DefineDecl) formNode()  {}
func (*IncludeAttr) formNode() {}
func (*TypeAlias) formNode()   {}
func (*SpecAttr) formNode()    {}
func (*FileAttr) formNode()    {}
func (*PPDirective) formNode() {}
func (*CompileAttr) formNode() {}
func (*WildAttr) formNode()    {}
func (*FunDecl) formNode()     {}

// IsPreprocessor reports whether the form is skipped when looking for the
// module attribute at the top of a file.
func IsPreprocessor(f Form) bool {
	switch f.(type) {
	case *PPDirective, *FileAttr, *DefineDecl, *IncludeAttr:
		return true
	default:
		return false
	}
}
