package hir

import (
	"beamlint/internal/ast"
	"beamlint/internal/source"
)

// Body is the lowered representation of one top-level form. It owns four
// arenas; an id drawn from one body must never be indexed into another.
type Body struct {
	Exprs     Arena[Expr]
	Pats      Arena[Pat]
	Terms     Arena[Term]
	TypeExprs Arena[TypeExpr]
	Clauses   Arena[Clause]

	// TopClauses are the clauses of the owning function, in source order.
	// Пусто для не-функциональных форм.
	TopClauses []ClauseID

	SourceMap *BodySourceMap
}

// NewBody creates an empty body with an attached source map.
func NewBody() *Body {
	return &Body{SourceMap: NewBodySourceMap()}
}

// Expr returns the expression node for the id, or nil for NoExprID.
func (b *Body) Expr(id ExprID) *Expr { return b.Exprs.Get(uint32(id)) }

// Pat returns the pattern node for the id, or nil for NoPatID.
func (b *Body) Pat(id PatID) *Pat { return b.Pats.Get(uint32(id)) }

// Term returns the term node for the id, or nil for NoTermID.
func (b *Body) Term(id TermID) *Term { return b.Terms.Get(uint32(id)) }

// Clause returns the clause for the id, or nil for NoClauseID.
func (b *Body) Clause(id ClauseID) *Clause { return b.Clauses.Get(uint32(id)) }

// BodySourceMap relates HIR ids to AST pointers in both directions.
// Для каждого id есть не более одного AST-указателя; отсутствие означает
// синтетический узел (например, внутри раскрытия макроса) — тогда span
// указывает на место вызова макроса.
type BodySourceMap struct {
	exprAST map[ExprID]ast.Expr
	astExpr map[ast.Expr]ExprID
	patAST  map[PatID]ast.Expr
	astPat  map[ast.Expr]PatID
	termAST map[TermID]ast.Expr

	exprSpan map[ExprID]source.Span
	patSpan  map[PatID]source.Span
	termSpan map[TermID]source.Span
}

// NewBodySourceMap creates an empty source map.
func NewBodySourceMap() *BodySourceMap {
	return &BodySourceMap{
		exprAST:  make(map[ExprID]ast.Expr),
		astExpr:  make(map[ast.Expr]ExprID),
		patAST:   make(map[PatID]ast.Expr),
		astPat:   make(map[ast.Expr]PatID),
		termAST:  make(map[TermID]ast.Expr),
		exprSpan: make(map[ExprID]source.Span),
		patSpan:  make(map[PatID]source.Span),
		termSpan: make(map[TermID]source.Span),
	}
}

func (m *BodySourceMap) recordExpr(id ExprID, node ast.Expr, span source.Span) {
	if node != nil {
		m.exprAST[id] = node
		m.astExpr[node] = id
	}
	m.exprSpan[id] = span
}

func (m *BodySourceMap) recordPat(id PatID, node ast.Expr, span source.Span) {
	if node != nil {
		m.patAST[id] = node
		m.astPat[node] = id
	}
	m.patSpan[id] = span
}

func (m *BodySourceMap) recordTerm(id TermID, node ast.Expr, span source.Span) {
	if node != nil {
		m.termAST[id] = node
	}
	m.termSpan[id] = span
}

// ExprAST returns the AST node for an expression id. ok is false for
// synthetic nodes.
func (m *BodySourceMap) ExprAST(id ExprID) (ast.Expr, bool) {
	n, ok := m.exprAST[id]
	return n, ok
}

// PatAST returns the AST node for a pattern id.
func (m *BodySourceMap) PatAST(id PatID) (ast.Expr, bool) {
	n, ok := m.patAST[id]
	return n, ok
}

// ExprForAST resolves an AST node back to its expression id.
func (m *BodySourceMap) ExprForAST(node ast.Expr) (ExprID, bool) {
	id, ok := m.astExpr[node]
	return id, ok
}

// PatForAST resolves an AST node back to its pattern id.
func (m *BodySourceMap) PatForAST(node ast.Expr) (PatID, bool) {
	id, ok := m.astPat[node]
	return id, ok
}

// ExprSpan projects an expression id onto its text range. Synthetic nodes
// report the enclosing macro call site.
func (m *BodySourceMap) ExprSpan(id ExprID) (source.Span, bool) {
	s, ok := m.exprSpan[id]
	return s, ok
}

// PatSpan projects a pattern id onto its text range.
func (m *BodySourceMap) PatSpan(id PatID) (source.Span, bool) {
	s, ok := m.patSpan[id]
	return s, ok
}

// TermSpan projects a term id onto its text range.
func (m *BodySourceMap) TermSpan(id TermID) (source.Span, bool) {
	s, ok := m.termSpan[id]
	return s, ok
}
