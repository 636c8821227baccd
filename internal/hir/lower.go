package hir

import (
	"beamlint/internal/ast"
	"beamlint/internal/source"
)

// maxMacroDepth bounds recursive macro expansion during lowering.
const maxMacroDepth = 8

// Lowerer turns parsed forms into arena-allocated HIR bodies.
// Id assignment детерминирован: обход AST всегда в исходном порядке.
type Lowerer struct {
	atoms *source.Interner
	defs  *DefMap // для раскрытия макросов, может быть nil

	body      *Body
	macroSite []source.Span // стек мест вызова макросов
	depth     int
}

// NewLowerer creates a lowerer over the given interner and definition map.
func NewLowerer(atoms *source.Interner, defs *DefMap) *Lowerer {
	return &Lowerer{atoms: atoms, defs: defs}
}

// LowerFunction lowers all clauses of a function declaration into one Body.
func (lw *Lowerer) LowerFunction(decl *ast.FunDecl) *Body {
	lw.body = NewBody()
	lw.macroSite = nil
	lw.depth = 0

	for _, clause := range decl.Clauses {
		c := Clause{}
		for _, param := range clause.Params {
			c.Pats = append(c.Pats, lw.lowerPat(param))
		}
		c.Guards = lw.lowerGuards(clause.Guards)
		for _, e := range clause.Body {
			c.Exprs = append(c.Exprs, lw.lowerExpr(e))
		}
		id := ClauseID(lw.body.Clauses.Allocate(c))
		lw.body.TopClauses = append(lw.body.TopClauses, id)
	}
	return lw.body
}

// LowerTerm lowers an attribute argument into the term sublanguage.
func (lw *Lowerer) LowerTerm(node ast.Expr) (*Body, TermID) {
	lw.body = NewBody()
	lw.macroSite = nil
	lw.depth = 0
	id := lw.lowerTerm(node)
	return lw.body, id
}

func (lw *Lowerer) lowerGuards(guards [][]ast.Expr) [][]ExprID {
	var out [][]ExprID
	for _, group := range guards {
		var ids []ExprID
		for _, g := range group {
			ids = append(ids, lw.lowerExpr(g))
		}
		out = append(out, ids)
	}
	return out
}

func (lw *Lowerer) inMacro() bool { return len(lw.macroSite) > 0 }

func (lw *Lowerer) allocExpr(e Expr, node ast.Expr) ExprID {
	id := ExprID(lw.body.Exprs.Allocate(e))
	if lw.inMacro() {
		lw.body.SourceMap.recordExpr(id, nil, lw.macroSite[len(lw.macroSite)-1])
	} else {
		lw.body.SourceMap.recordExpr(id, node, node.Span())
	}
	return id
}

func (lw *Lowerer) allocPat(p Pat, node ast.Expr) PatID {
	id := PatID(lw.body.Pats.Allocate(p))
	if lw.inMacro() {
		lw.body.SourceMap.recordPat(id, nil, lw.macroSite[len(lw.macroSite)-1])
	} else {
		lw.body.SourceMap.recordPat(id, node, node.Span())
	}
	return id
}

func (lw *Lowerer) allocTerm(t Term, node ast.Expr) TermID {
	id := TermID(lw.body.Terms.Allocate(t))
	if lw.inMacro() {
		lw.body.SourceMap.recordTerm(id, nil, lw.macroSite[len(lw.macroSite)-1])
	} else {
		lw.body.SourceMap.recordTerm(id, node, node.Span())
	}
	return id
}

// ---------------------------------------------------------------------
// Expressions

func (lw *Lowerer) lowerExprs(nodes []ast.Expr) []ExprID {
	var out []ExprID
	for _, n := range nodes {
		out = append(out, lw.lowerExpr(n))
	}
	return out
}

func (lw *Lowerer) lowerExpr(node ast.Expr) ExprID {
	switch n := node.(type) {
	case *ast.AtomLit:
		return lw.allocExpr(Expr{Kind: ExprLiteral, Data: Literal{Kind: LiteralAtom, Atom: lw.atoms.Intern(n.Value)}}, node)
	case *ast.IntLit:
		return lw.allocExpr(Expr{Kind: ExprLiteral, Data: Literal{Kind: LiteralInt, Text: n.Text}}, node)
	case *ast.FloatLit:
		return lw.allocExpr(Expr{Kind: ExprLiteral, Data: Literal{Kind: LiteralFloat, Text: n.Text}}, node)
	case *ast.StringLit:
		return lw.allocExpr(Expr{Kind: ExprLiteral, Data: Literal{Kind: LiteralString, Text: n.Text}}, node)
	case *ast.CharLit:
		return lw.allocExpr(Expr{Kind: ExprLiteral, Data: Literal{Kind: LiteralChar, Text: n.Text}}, node)
	case *ast.VarRef:
		return lw.allocExpr(Expr{Kind: ExprVar, Data: VarData{Name: lw.atoms.Intern(n.Name)}}, node)
	case *ast.MatchExpr:
		lhs := lw.lowerPat(n.Lhs)
		rhs := lw.lowerExpr(n.Rhs)
		return lw.allocExpr(Expr{Kind: ExprMatch, Data: MatchData{Lhs: lhs, Rhs: rhs}}, node)
	case *ast.Tuple:
		return lw.allocExpr(Expr{Kind: ExprTuple, Data: TupleData{Exprs: lw.lowerExprs(n.Elems)}}, node)
	case *ast.ListExpr:
		data := ListData{Exprs: lw.lowerExprs(n.Elems)}
		if n.Tail != nil {
			data.Tail = lw.lowerExpr(n.Tail)
		}
		return lw.allocExpr(Expr{Kind: ExprList, Data: data}, node)
	case *ast.Binary:
		var segs []BinarySeg
		for _, s := range n.Segs {
			seg := BinarySeg{Elem: lw.lowerExpr(s.Elem)}
			if s.Size != nil {
				seg.Size = lw.lowerExpr(s.Size)
			}
			segs = append(segs, seg)
		}
		return lw.allocExpr(Expr{Kind: ExprBinary, Data: BinaryData{Segs: segs}}, node)
	case *ast.UnaryOp:
		operand := lw.lowerExpr(n.Operand)
		return lw.allocExpr(Expr{Kind: ExprUnaryOp, Data: UnaryOpData{Op: lw.atoms.Intern(n.Op), Expr: operand}}, node)
	case *ast.BinaryOp:
		lhs := lw.lowerExpr(n.Lhs)
		rhs := lw.lowerExpr(n.Rhs)
		return lw.allocExpr(Expr{Kind: ExprBinaryOp, Data: BinaryOpData{Op: lw.atoms.Intern(n.Op), Lhs: lhs, Rhs: rhs}}, node)
	case *ast.RecordExpr:
		data := RecordData{Name: lw.atoms.Intern(n.Name.Text)}
		for _, f := range n.Fields {
			data.Fields = append(data.Fields, RecordFieldInit{
				Field: lw.atoms.Intern(f.Field.Text),
				Value: lw.lowerExpr(f.Value),
			})
		}
		return lw.allocExpr(Expr{Kind: ExprRecord, Data: data}, node)
	case *ast.RecordUpdate:
		data := RecordUpdateData{
			Expr: lw.lowerExpr(n.Operand),
			Name: lw.atoms.Intern(n.Name.Text),
		}
		for _, f := range n.Fields {
			data.Fields = append(data.Fields, RecordFieldInit{
				Field: lw.atoms.Intern(f.Field.Text),
				Value: lw.lowerExpr(f.Value),
			})
		}
		return lw.allocExpr(Expr{Kind: ExprRecordUpdate, Data: data}, node)
	case *ast.RecordAccess:
		return lw.allocExpr(Expr{Kind: ExprRecordField, Data: RecordFieldData{
			Expr:  lw.lowerExpr(n.Operand),
			Name:  lw.atoms.Intern(n.Name.Text),
			Field: lw.atoms.Intern(n.Field.Text),
		}}, node)
	case *ast.RecordIndex:
		return lw.allocExpr(Expr{Kind: ExprRecordIndex, Data: RecordIndexData{
			Name:  lw.atoms.Intern(n.Name.Text),
			Field: lw.atoms.Intern(n.Field.Text),
		}}, node)
	case *ast.MapExpr:
		return lw.allocExpr(Expr{Kind: ExprMap, Data: MapData{Fields: lw.lowerMapFields(n.Fields)}}, node)
	case *ast.MapUpdate:
		return lw.allocExpr(Expr{Kind: ExprMapUpdate, Data: MapUpdateData{
			Expr:   lw.lowerExpr(n.Operand),
			Fields: lw.lowerMapFields(n.Fields),
		}}, node)
	case *ast.CatchExpr:
		return lw.allocExpr(Expr{Kind: ExprCatch, Data: CatchData{Expr: lw.lowerExpr(n.Operand)}}, node)
	case *ast.MacroCall:
		return lw.lowerMacroCall(n)
	case *ast.Call:
		data := CallData{Args: lw.lowerExprs(n.Args)}
		if n.Module != nil {
			data.Target = CallTarget{Module: lw.lowerExpr(n.Module), Name: lw.lowerExpr(n.Fun)}
		} else {
			data.Target = CallTarget{Name: lw.lowerExpr(n.Fun)}
		}
		return lw.allocExpr(Expr{Kind: ExprCall, Data: data}, node)
	case *ast.Comprehension:
		return lw.lowerComprehension(n)
	case *ast.Block:
		return lw.allocExpr(Expr{Kind: ExprBlock, Data: BlockData{Exprs: lw.lowerExprs(n.Body)}}, node)
	case *ast.IfExpr:
		data := IfData{}
		for _, c := range n.Clauses {
			data.Clauses = append(data.Clauses, IfClause{
				Guards: lw.lowerGuards(c.Guards),
				Exprs:  lw.lowerExprs(c.Body),
			})
		}
		return lw.allocExpr(Expr{Kind: ExprIf, Data: data}, node)
	case *ast.CaseExpr:
		data := CaseData{Expr: lw.lowerExpr(n.Scrutinee)}
		data.Clauses = lw.lowerCRClauses(n.Clauses)
		return lw.allocExpr(Expr{Kind: ExprCase, Data: data}, node)
	case *ast.ReceiveExpr:
		data := ReceiveData{Clauses: lw.lowerCRClauses(n.Clauses)}
		if n.After != nil {
			data.After = &ReceiveAfter{
				Timeout: lw.lowerExpr(n.After.Timeout),
				Exprs:   lw.lowerExprs(n.After.Body),
			}
		}
		return lw.allocExpr(Expr{Kind: ExprReceive, Data: data}, node)
	case *ast.TryExpr:
		data := TryData{
			Exprs:     lw.lowerExprs(n.Body),
			OfClauses: lw.lowerCRClauses(n.OfClauses),
			After:     lw.lowerExprs(n.After),
		}
		for _, c := range n.CatchClauses {
			tc := TryCatchClause{
				Reason: lw.lowerPat(c.Reason),
				Guards: lw.lowerGuards(c.Guards),
				Exprs:  lw.lowerExprs(c.Body),
			}
			if c.Class != nil {
				tc.Class = lw.lowerPat(c.Class)
			}
			if c.Stack != nil {
				tc.Stack = lw.lowerPat(c.Stack)
			}
			data.CatchClauses = append(data.CatchClauses, tc)
		}
		return lw.allocExpr(Expr{Kind: ExprTry, Data: data}, node)
	case *ast.CaptureFun:
		data := CaptureFunData{Arity: lw.lowerExpr(n.Arity)}
		if n.Module != nil {
			data.Target = CallTarget{Module: lw.lowerExpr(n.Module), Name: lw.lowerExpr(n.Fun)}
		} else {
			data.Target = CallTarget{Name: lw.lowerExpr(n.Fun)}
		}
		return lw.allocExpr(Expr{Kind: ExprCaptureFun, Data: data}, node)
	case *ast.FunExpr:
		data := ClosureData{}
		for _, c := range n.Clauses {
			clause := Clause{
				Guards: lw.lowerGuards(c.Guards),
				Exprs:  lw.lowerExprs(c.Body),
			}
			for _, p := range c.Params {
				clause.Pats = append(clause.Pats, lw.lowerPat(p))
			}
			data.Clauses = append(data.Clauses, ClauseID(lw.body.Clauses.Allocate(clause)))
			if c.Name != "" && !data.Name.IsValid() {
				data.Name = lw.atoms.Intern(c.Name)
			}
		}
		return lw.allocExpr(Expr{Kind: ExprClosure, Data: data}, node)
	case *ast.MaybeExpr:
		data := MaybeData{ElseClauses: lw.lowerCRClauses(n.ElseClauses)}
		for _, step := range n.Body {
			if cond, ok := step.(*ast.MaybeCond); ok {
				data.Exprs = append(data.Exprs, MaybeItem{
					Kind: MaybeCond,
					Lhs:  lw.lowerPat(cond.Pat),
					Rhs:  lw.lowerExpr(cond.Operand),
				})
				continue
			}
			data.Exprs = append(data.Exprs, MaybeItem{Kind: MaybePlain, Rhs: lw.lowerExpr(step)})
		}
		return lw.allocExpr(Expr{Kind: ExprMaybe, Data: data}, node)
	case *ast.MaybeCond:
		// ?= вне maybe — ошибка парсера; сохраняем как match
		lhs := lw.lowerPat(n.Pat)
		rhs := lw.lowerExpr(n.Operand)
		return lw.allocExpr(Expr{Kind: ExprMatch, Data: MatchData{Lhs: lhs, Rhs: rhs}}, node)
	case *ast.ParenExpr:
		inner := lw.lowerExpr(n.Inner)
		return lw.allocExpr(Expr{Kind: ExprParen, Data: ParenData{Expr: inner}}, node)
	default:
		return lw.allocExpr(Expr{Kind: ExprMissing}, node)
	}
}

func (lw *Lowerer) lowerMapFields(fields []ast.MapField) []MapFieldInit {
	var out []MapFieldInit
	for _, f := range fields {
		op := MapOpAssoc
		if f.Exact {
			op = MapOpExact
		}
		out = append(out, MapFieldInit{
			Key:   lw.lowerExpr(f.Key),
			Op:    op,
			Value: lw.lowerExpr(f.Value),
		})
	}
	return out
}

func (lw *Lowerer) lowerCRClauses(clauses []ast.CRClause) []CRClause {
	var out []CRClause
	for _, c := range clauses {
		out = append(out, CRClause{
			Pat:    lw.lowerPat(c.Pat),
			Guards: lw.lowerGuards(c.Guards),
			Exprs:  lw.lowerExprs(c.Body),
		})
	}
	return out
}

func (lw *Lowerer) lowerComprehension(n *ast.Comprehension) ExprID {
	var kind ComprehensionKind
	switch n.Kind {
	case ast.CompList:
		kind = ComprehensionList
	case ast.CompBinary:
		kind = ComprehensionBinary
	case ast.CompMap:
		kind = ComprehensionMap
	}
	data := ComprehensionData{Kind: kind, Builder: lw.lowerExpr(n.Builder)}
	if n.ValueEl != nil {
		data.Value = lw.lowerExpr(n.ValueEl)
	}
	for _, q := range n.Quals {
		if q.Filter {
			data.Exprs = append(data.Exprs, ComprehensionExpr{
				Kind: CompExprFilter,
				Expr: lw.lowerExpr(q.Operand),
			})
			continue
		}
		ce := ComprehensionExpr{Expr: lw.lowerExpr(q.Operand)}
		switch q.Kind {
		case ast.GenList:
			ce.Kind = CompExprListGenerator
			ce.Pat = lw.lowerPat(q.Pat)
		case ast.GenBinary:
			ce.Kind = CompExprBinGenerator
			ce.Pat = lw.lowerPat(q.Pat)
		case ast.GenMap:
			ce.Kind = CompExprMapGenerator
			ce.Pat = lw.lowerPat(q.Pat)
			ce.Val = lw.lowerPat(q.ValPat)
		}
		data.Exprs = append(data.Exprs, ce)
	}
	return lw.allocExpr(Expr{Kind: ExprComprehension, Data: data}, n)
}

// lowerMacroCall сохраняет и нераскрытые аргументы, и раскрытое тело.
// Узлы раскрытия синтетические: их span указывает на место вызова.
func (lw *Lowerer) lowerMacroCall(n *ast.MacroCall) ExprID {
	data := MacroCallData{
		Name: lw.atoms.Intern(n.Name),
		Args: lw.lowerExprs(n.Args),
	}
	if lw.defs != nil && lw.depth < maxMacroDepth {
		arity := -1
		if n.HasArgs {
			arity = len(n.Args)
		}
		if def := lw.defs.ResolveMacro(n.Name, arity); def != nil && def.Decl.Replacement != nil {
			lw.macroSite = append(lw.macroSite, n.Rng)
			lw.depth++
			data.Expansion = lw.lowerExpr(def.Decl.Replacement)
			lw.depth--
			lw.macroSite = lw.macroSite[:len(lw.macroSite)-1]
		}
	}
	return lw.allocExpr(Expr{Kind: ExprMacroCall, Data: data}, n)
}

// ---------------------------------------------------------------------
// Patterns

func (lw *Lowerer) lowerPats(nodes []ast.Expr) []PatID {
	var out []PatID
	for _, n := range nodes {
		out = append(out, lw.lowerPat(n))
	}
	return out
}

func (lw *Lowerer) lowerPat(node ast.Expr) PatID {
	switch n := node.(type) {
	case *ast.AtomLit:
		return lw.allocPat(Pat{Kind: PatLiteral, Data: PatLiteralData{Lit: Literal{Kind: LiteralAtom, Atom: lw.atoms.Intern(n.Value)}}}, node)
	case *ast.IntLit:
		return lw.allocPat(Pat{Kind: PatLiteral, Data: PatLiteralData{Lit: Literal{Kind: LiteralInt, Text: n.Text}}}, node)
	case *ast.FloatLit:
		return lw.allocPat(Pat{Kind: PatLiteral, Data: PatLiteralData{Lit: Literal{Kind: LiteralFloat, Text: n.Text}}}, node)
	case *ast.StringLit:
		return lw.allocPat(Pat{Kind: PatLiteral, Data: PatLiteralData{Lit: Literal{Kind: LiteralString, Text: n.Text}}}, node)
	case *ast.CharLit:
		return lw.allocPat(Pat{Kind: PatLiteral, Data: PatLiteralData{Lit: Literal{Kind: LiteralChar, Text: n.Text}}}, node)
	case *ast.VarRef:
		return lw.allocPat(Pat{Kind: PatVar, Data: PatVarData{Name: lw.atoms.Intern(n.Name)}}, node)
	case *ast.MatchExpr:
		lhs := lw.lowerPat(n.Lhs)
		rhs := lw.lowerPat(n.Rhs)
		return lw.allocPat(Pat{Kind: PatMatch, Data: PatMatchData{Lhs: lhs, Rhs: rhs}}, node)
	case *ast.Tuple:
		return lw.allocPat(Pat{Kind: PatTuple, Data: PatTupleData{Pats: lw.lowerPats(n.Elems)}}, node)
	case *ast.ListExpr:
		data := PatListData{Pats: lw.lowerPats(n.Elems)}
		if n.Tail != nil {
			data.Tail = lw.lowerPat(n.Tail)
		}
		return lw.allocPat(Pat{Kind: PatList, Data: data}, node)
	case *ast.Binary:
		var segs []PatBinarySeg
		for _, s := range n.Segs {
			seg := PatBinarySeg{Elem: lw.lowerPat(s.Elem)}
			if s.Size != nil {
				seg.Size = lw.lowerExpr(s.Size)
			}
			segs = append(segs, seg)
		}
		return lw.allocPat(Pat{Kind: PatBinary, Data: PatBinaryData{Segs: segs}}, node)
	case *ast.UnaryOp:
		operand := lw.lowerPat(n.Operand)
		return lw.allocPat(Pat{Kind: PatUnaryOp, Data: PatUnaryOpData{Op: lw.atoms.Intern(n.Op), Pat: operand}}, node)
	case *ast.BinaryOp:
		lhs := lw.lowerPat(n.Lhs)
		rhs := lw.lowerPat(n.Rhs)
		return lw.allocPat(Pat{Kind: PatBinaryOp, Data: PatBinaryOpData{Op: lw.atoms.Intern(n.Op), Lhs: lhs, Rhs: rhs}}, node)
	case *ast.RecordExpr:
		data := PatRecordData{Name: lw.atoms.Intern(n.Name.Text)}
		for _, f := range n.Fields {
			data.Fields = append(data.Fields, PatRecordFieldInit{
				Field: lw.atoms.Intern(f.Field.Text),
				Value: lw.lowerPat(f.Value),
			})
		}
		return lw.allocPat(Pat{Kind: PatRecord, Data: data}, node)
	case *ast.RecordIndex:
		return lw.allocPat(Pat{Kind: PatRecordIndex, Data: PatRecordIndexData{
			Name:  lw.atoms.Intern(n.Name.Text),
			Field: lw.atoms.Intern(n.Field.Text),
		}}, node)
	case *ast.MapExpr:
		data := PatMapData{}
		for _, f := range n.Fields {
			data.Fields = append(data.Fields, PatMapFieldInit{
				Key:   lw.lowerExpr(f.Key),
				Value: lw.lowerPat(f.Value),
			})
		}
		return lw.allocPat(Pat{Kind: PatMap, Data: data}, node)
	case *ast.MacroCall:
		data := PatMacroCallData{
			Name: lw.atoms.Intern(n.Name),
			Args: lw.lowerExprs(n.Args),
		}
		if lw.defs != nil && lw.depth < maxMacroDepth {
			arity := -1
			if n.HasArgs {
				arity = len(n.Args)
			}
			if def := lw.defs.ResolveMacro(n.Name, arity); def != nil && def.Decl.Replacement != nil {
				lw.macroSite = append(lw.macroSite, n.Rng)
				lw.depth++
				data.Expansion = lw.lowerPat(def.Decl.Replacement)
				lw.depth--
				lw.macroSite = lw.macroSite[:len(lw.macroSite)-1]
			}
		}
		return lw.allocPat(Pat{Kind: PatMacroCall, Data: data}, node)
	case *ast.ParenExpr:
		return lw.lowerPat(n.Inner)
	default:
		return lw.allocPat(Pat{Kind: PatMissing}, node)
	}
}

// ---------------------------------------------------------------------
// Terms

func (lw *Lowerer) lowerTerm(node ast.Expr) TermID {
	switch n := node.(type) {
	case *ast.AtomLit:
		return lw.allocTerm(Term{Kind: TermLiteral, Data: TermLiteralData{Lit: Literal{Kind: LiteralAtom, Atom: lw.atoms.Intern(n.Value)}}}, node)
	case *ast.IntLit:
		return lw.allocTerm(Term{Kind: TermLiteral, Data: TermLiteralData{Lit: Literal{Kind: LiteralInt, Text: n.Text}}}, node)
	case *ast.FloatLit:
		return lw.allocTerm(Term{Kind: TermLiteral, Data: TermLiteralData{Lit: Literal{Kind: LiteralFloat, Text: n.Text}}}, node)
	case *ast.StringLit:
		return lw.allocTerm(Term{Kind: TermLiteral, Data: TermLiteralData{Lit: Literal{Kind: LiteralString, Text: n.Text}}}, node)
	case *ast.CharLit:
		return lw.allocTerm(Term{Kind: TermLiteral, Data: TermLiteralData{Lit: Literal{Kind: LiteralChar, Text: n.Text}}}, node)
	case *ast.Binary:
		// Бинарные литералы в термах переводятся ограниченно.
		return lw.allocTerm(Term{Kind: TermBinary}, node)
	case *ast.Tuple:
		data := TermTupleData{}
		for _, e := range n.Elems {
			data.Exprs = append(data.Exprs, lw.lowerTerm(e))
		}
		return lw.allocTerm(Term{Kind: TermTuple, Data: data}, node)
	case *ast.ListExpr:
		data := TermListData{}
		for _, e := range n.Elems {
			data.Exprs = append(data.Exprs, lw.lowerTerm(e))
		}
		if n.Tail != nil {
			data.Tail = lw.lowerTerm(n.Tail)
		}
		return lw.allocTerm(Term{Kind: TermList, Data: data}, node)
	case *ast.MapExpr:
		data := TermMapData{}
		for _, f := range n.Fields {
			data.Fields = append(data.Fields, TermMapField{
				Key:   lw.lowerTerm(f.Key),
				Value: lw.lowerTerm(f.Value),
			})
		}
		return lw.allocTerm(Term{Kind: TermMap, Data: data}, node)
	case *ast.CaptureFun:
		data := TermCaptureFunData{}
		if m, ok := ast.Unparen(n.Fun).(*ast.AtomLit); ok {
			data.Name = lw.atoms.Intern(m.Value)
		}
		if n.Module != nil {
			if m, ok := ast.Unparen(n.Module).(*ast.AtomLit); ok {
				data.Module = lw.atoms.Intern(m.Value)
			}
		}
		return lw.allocTerm(Term{Kind: TermCaptureFun, Data: data}, node)
	case *ast.MacroCall:
		data := TermMacroCallData{Name: lw.atoms.Intern(n.Name)}
		if lw.defs != nil && lw.depth < maxMacroDepth {
			arity := -1
			if n.HasArgs {
				arity = len(n.Args)
			}
			if def := lw.defs.ResolveMacro(n.Name, arity); def != nil && def.Decl.Replacement != nil {
				lw.macroSite = append(lw.macroSite, n.Rng)
				lw.depth++
				data.Expansion = lw.lowerTerm(def.Decl.Replacement)
				lw.depth--
				lw.macroSite = lw.macroSite[:len(lw.macroSite)-1]
			}
		}
		return lw.allocTerm(Term{Kind: TermMacroCall, Data: data}, node)
	case *ast.ParenExpr:
		return lw.lowerTerm(n.Inner)
	default:
		return lw.allocTerm(Term{Kind: TermMissing}, node)
	}
}
