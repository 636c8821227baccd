package hir

import (
	"beamlint/internal/source"
)

// TermKind enumerates the compile-time-literal sublanguage used for
// attribute arguments.
type TermKind uint8

const (
	// TermMissing marks an unrepresentable attribute argument.
	TermMissing TermKind = iota
	// TermLiteral is a literal term.
	TermLiteral
	// TermBinary is a binary term, kept opaque.
	TermBinary
	// TermTuple is a tuple term.
	TermTuple
	// TermList is a list term with an optional tail.
	TermList
	// TermMap is a map term.
	TermMap
	// TermCaptureFun is fun m:f/a in term position.
	TermCaptureFun
	// TermMacroCall is a macro call in term position.
	TermMacroCall
)

// Term represents one compile-time term stored in a Body arena.
type Term struct {
	Kind TermKind
	Data TermData
}

// TermData is the interface for term-specific data.
type TermData interface {
	termData()
}

// TermLiteralData holds data for TermLiteral.
type TermLiteralData struct {
	Lit Literal
}

func (TermLiteralData) termData() {}

// TermTupleData holds data for TermTuple.
type TermTupleData struct {
	Exprs []TermID
}

func (TermTupleData) termData() {}

// TermListData holds data for TermList.
type TermListData struct {
	Exprs []TermID
	Tail  TermID // NoTermID for proper lists
}

func (TermListData) termData() {}

// TermMapField is one key/value entry of a map term.
type TermMapField struct {
	Key   TermID
	Value TermID
}

// TermMapData holds data for TermMap.
type TermMapData struct {
	Fields []TermMapField
}

func (TermMapData) termData() {}

// TermCaptureFunData holds data for TermCaptureFun.
type TermCaptureFunData struct {
	Module source.AtomID
	Name   source.AtomID
	Arity  uint32
}

func (TermCaptureFunData) termData() {}

// TermMacroCallData holds data for TermMacroCall.
// Аргументы в термах игнорируются.
type TermMacroCallData struct {
	Name      source.AtomID
	Expansion TermID
}

func (TermMacroCallData) termData() {}

// TypeExprKind enumerates lowered type expressions. Types are carried for
// range projection; их внутренняя структура линтами не используется.
type TypeExprKind uint8

const (
	// TypeExprMissing is an absent or unrepresentable type.
	TypeExprMissing TypeExprKind = iota
	// TypeExprOpaque is a type kept as an opaque source range.
	TypeExprOpaque
)

// TypeExpr represents one lowered type expression.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
}
