package hir

import (
	"beamlint/internal/source"
)

// ExprKind enumerates HIR expression kinds.
// These map closely to AST expression kinds with minimal desugaring.
type ExprKind uint8

const (
	// ExprMissing marks a position the parser could not fill.
	ExprMissing ExprKind = iota
	// ExprLiteral represents literals (atom, int, float, string, char).
	ExprLiteral
	// ExprVar represents a variable reference.
	ExprVar
	// ExprMatch represents a pattern binding Lhs = Rhs.
	ExprMatch
	// ExprTuple represents a tuple construction.
	ExprTuple
	// ExprList represents a list with an optional improper tail.
	ExprList
	// ExprBinary represents a binary with ordered segments.
	ExprBinary
	// ExprUnaryOp represents a unary operator application.
	ExprUnaryOp
	// ExprBinaryOp represents a binary operator application.
	ExprBinaryOp
	// ExprRecord represents record construction #name{...}.
	ExprRecord
	// ExprRecordUpdate represents record update Expr#name{...}.
	ExprRecordUpdate
	// ExprRecordField represents field access Expr#name.field.
	ExprRecordField
	// ExprRecordIndex represents #name.field.
	ExprRecordIndex
	// ExprMap represents map construction #{...}.
	ExprMap
	// ExprMapUpdate represents map update Expr#{...}.
	ExprMapUpdate
	// ExprCatch represents catch Expr.
	ExprCatch
	// ExprMacroCall represents a macro call carrying args and expansion.
	ExprMacroCall
	// ExprCall represents a function call with a local or remote target.
	ExprCall
	// ExprComprehension represents list/binary/map comprehensions.
	ExprComprehension
	// ExprBlock represents begin ... end.
	ExprBlock
	// ExprIf represents if with guarded clauses.
	ExprIf
	// ExprCase represents case with a scrutinee and clauses.
	ExprCase
	// ExprReceive represents receive with an optional timeout branch.
	ExprReceive
	// ExprTry represents try/of/catch/after.
	ExprTry
	// ExprCaptureFun represents fun Name/Arity and fun Mod:Name/Arity.
	ExprCaptureFun
	// ExprClosure represents an anonymous fun with clauses.
	ExprClosure
	// ExprMaybe represents maybe ... else ... end.
	ExprMaybe
	// ExprParen keeps explicit parentheses alive for faithful ranges.
	ExprParen
)

// Expr represents one HIR expression node stored in a Body arena.
type Expr struct {
	Kind ExprKind
	Data ExprData // kind-specific payload, nil for ExprMissing
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	// LiteralAtom is an atom literal.
	LiteralAtom LiteralKind = iota
	// LiteralInt is an integer literal.
	LiteralInt
	// LiteralFloat is a float literal.
	LiteralFloat
	// LiteralString is a string literal.
	LiteralString
	// LiteralChar is a character literal.
	LiteralChar
)

// Literal holds data for literal expressions, patterns, and terms.
type Literal struct {
	Kind LiteralKind
	Atom source.AtomID // atoms only
	Text string        // raw text for the remaining kinds
}

func (Literal) exprData() {}

// VarData holds data for ExprVar.
type VarData struct {
	Name source.AtomID
}

func (VarData) exprData() {}

// MatchData holds data for ExprMatch.
type MatchData struct {
	Lhs PatID
	Rhs ExprID
}

func (MatchData) exprData() {}

// TupleData holds data for ExprTuple.
type TupleData struct {
	Exprs []ExprID
}

func (TupleData) exprData() {}

// ListData holds data for ExprList.
type ListData struct {
	Exprs []ExprID
	Tail  ExprID // NoExprID for proper lists
}

func (ListData) exprData() {}

// BinarySeg is one segment of a binary: element plus optional size.
type BinarySeg struct {
	Elem ExprID
	Size ExprID // NoExprID when absent
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Segs []BinarySeg
}

func (BinaryData) exprData() {}

// UnaryOpData holds data for ExprUnaryOp.
type UnaryOpData struct {
	Op   source.AtomID
	Expr ExprID
}

func (UnaryOpData) exprData() {}

// BinaryOpData holds data for ExprBinaryOp.
type BinaryOpData struct {
	Op  source.AtomID
	Lhs ExprID
	Rhs ExprID
}

func (BinaryOpData) exprData() {}

// RecordFieldInit is one field assignment in a record expression.
type RecordFieldInit struct {
	Field source.AtomID
	Value ExprID
}

// RecordData holds data for ExprRecord.
type RecordData struct {
	Name   source.AtomID
	Fields []RecordFieldInit
}

func (RecordData) exprData() {}

// RecordUpdateData holds data for ExprRecordUpdate.
type RecordUpdateData struct {
	Expr   ExprID
	Name   source.AtomID
	Fields []RecordFieldInit
}

func (RecordUpdateData) exprData() {}

// RecordFieldData holds data for ExprRecordField.
type RecordFieldData struct {
	Expr  ExprID
	Name  source.AtomID
	Field source.AtomID
}

func (RecordFieldData) exprData() {}

// RecordIndexData holds data for ExprRecordIndex.
type RecordIndexData struct {
	Name  source.AtomID
	Field source.AtomID
}

func (RecordIndexData) exprData() {}

// MapOp distinguishes per-field association flavour.
type MapOp uint8

const (
	// MapOpAssoc is '=>'.
	MapOpAssoc MapOp = iota
	// MapOpExact is ':='.
	MapOpExact
)

// MapFieldInit is one key/value entry of a map expression.
type MapFieldInit struct {
	Key   ExprID
	Op    MapOp
	Value ExprID
}

// MapData holds data for ExprMap.
type MapData struct {
	Fields []MapFieldInit
}

func (MapData) exprData() {}

// MapUpdateData holds data for ExprMapUpdate.
type MapUpdateData struct {
	Expr   ExprID
	Fields []MapFieldInit
}

func (MapUpdateData) exprData() {}

// CatchData holds data for ExprCatch.
type CatchData struct {
	Expr ExprID
}

func (CatchData) exprData() {}

// MacroCallData holds data for ExprMacroCall. Both the unexpanded argument
// list and the expanded body are retained.
type MacroCallData struct {
	Name      source.AtomID
	Args      []ExprID
	Expansion ExprID // NoExprID when the macro could not be expanded
}

func (MacroCallData) exprData() {}

// CallTarget is the callee of a call: local F or remote M:F.
type CallTarget struct {
	Module ExprID // NoExprID for local calls
	Name   ExprID
}

// CallData holds data for ExprCall.
type CallData struct {
	Target CallTarget
	Args   []ExprID
}

func (CallData) exprData() {}

// ComprehensionKind distinguishes comprehension builders.
type ComprehensionKind uint8

const (
	// ComprehensionList builds a list.
	ComprehensionList ComprehensionKind = iota
	// ComprehensionBinary builds a binary.
	ComprehensionBinary
	// ComprehensionMap builds a map.
	ComprehensionMap
)

// ComprehensionExprKind enumerates comprehension qualifiers.
type ComprehensionExprKind uint8

const (
	// CompExprListGenerator is Pat <- Expr.
	CompExprListGenerator ComprehensionExprKind = iota
	// CompExprBinGenerator is Pat <= Expr.
	CompExprBinGenerator
	// CompExprMapGenerator is KeyPat := ValPat <- Expr.
	CompExprMapGenerator
	// CompExprFilter is a boolean filter expression.
	CompExprFilter
)

// ComprehensionExpr is one generator or filter of a comprehension.
type ComprehensionExpr struct {
	Kind ComprehensionExprKind
	Pat  PatID  // generators; map generators use it for the key
	Val  PatID  // map generators only
	Expr ExprID // generator source, or the filter expression
}

// ComprehensionData holds data for ExprComprehension.
type ComprehensionData struct {
	Kind    ComprehensionKind
	Builder ExprID
	Value   ExprID // map comprehensions only
	Exprs   []ComprehensionExpr
}

func (ComprehensionData) exprData() {}

// BlockData holds data for ExprBlock.
type BlockData struct {
	Exprs []ExprID
}

func (BlockData) exprData() {}

// IfClause is one guarded clause of an if expression.
type IfClause struct {
	Guards [][]ExprID
	Exprs  []ExprID
}

// IfData holds data for ExprIf.
type IfData struct {
	Clauses []IfClause
}

func (IfData) exprData() {}

// CRClause is a pattern clause of case, receive, try-of, and maybe-else.
type CRClause struct {
	Pat    PatID
	Guards [][]ExprID
	Exprs  []ExprID
}

// CaseData holds data for ExprCase.
type CaseData struct {
	Expr    ExprID
	Clauses []CRClause
}

func (CaseData) exprData() {}

// ReceiveAfter is the timeout branch of a receive.
type ReceiveAfter struct {
	Timeout ExprID
	Exprs   []ExprID
}

// ReceiveData holds data for ExprReceive.
type ReceiveData struct {
	Clauses []CRClause
	After   *ReceiveAfter // nil when absent
}

func (ReceiveData) exprData() {}

// TryCatchClause is Class:Reason:Stack when Guards -> Body.
type TryCatchClause struct {
	Class  PatID // NoPatID when unspecified
	Reason PatID
	Stack  PatID // NoPatID when unspecified
	Guards [][]ExprID
	Exprs  []ExprID
}

// TryData holds data for ExprTry.
type TryData struct {
	Exprs        []ExprID
	OfClauses    []CRClause
	CatchClauses []TryCatchClause
	After        []ExprID
}

func (TryData) exprData() {}

// CaptureFunData holds data for ExprCaptureFun.
type CaptureFunData struct {
	Target CallTarget
	Arity  ExprID
}

func (CaptureFunData) exprData() {}

// Clause is one clause of a function or closure:
// образцы, группы охран (';' снаружи, ',' внутри) и тело.
type Clause struct {
	Pats   []PatID
	Guards [][]ExprID
	Exprs  []ExprID
}

// ClosureData holds data for ExprClosure.
type ClosureData struct {
	Clauses []ClauseID
	Name    source.AtomID // named funs only
}

func (ClosureData) exprData() {}

// MaybeItemKind distinguishes maybe body steps.
type MaybeItemKind uint8

const (
	// MaybeCond is Pat ?= Expr.
	MaybeCond MaybeItemKind = iota
	// MaybePlain is an ordinary expression step.
	MaybePlain
)

// MaybeItem is one step of a maybe body.
type MaybeItem struct {
	Kind MaybeItemKind
	Lhs  PatID // MaybeCond only
	Rhs  ExprID
}

// MaybeData holds data for ExprMaybe.
type MaybeData struct {
	Exprs       []MaybeItem
	ElseClauses []CRClause
}

func (MaybeData) exprData() {}

// ParenData holds data for ExprParen.
type ParenData struct {
	Expr ExprID
}

func (ParenData) exprData() {}
