package hir

// Generic traversal over HIR bodies computing a result.
//
// Обход детей всегда в исходном порядке; стек макросов сбалансирован:
// каждый вход в раскрытие снимается при выходе.

// Strategy selects when callbacks run relative to child visits.
type Strategy uint8

const (
	// TopDown runs the callback on entry, then visits children.
	TopDown Strategy = iota
	// BottomUp visits children first, then runs the callback on exit.
	BottomUp
	// Both runs the callback on both entry and exit.
	Both
)

// On indicates which phase a callback invocation belongs to.
type On uint8

const (
	// OnEntry is the pre-order phase.
	OnEntry On = iota
	// OnExit is the post-order phase.
	OnExit
)

// View selects whether macro calls expose their expansion or their
// unexpanded argument list.
type View uint8

const (
	// ViewExpanded descends into macro expansions; for a pattern macro call
	// it also visits the arguments after the expansion.
	ViewExpanded View = iota
	// ViewUnexpanded descends into macro arguments instead.
	ViewUnexpanded
)

// ExprCtx is passed to expression callbacks.
type ExprCtx struct {
	On      On
	InMacro ExprID // outermost enclosing macro call, NoExprID outside macros
	ID      ExprID
	Expr    Expr
}

// PatCtx is passed to pattern callbacks.
type PatCtx struct {
	On      On
	InMacro ExprID
	ID      PatID
	Pat     Pat
}

// TermCtx is passed to term callbacks.
type TermCtx struct {
	On      On
	InMacro ExprID
	ID      TermID
	Term    Term
}

// ExprCallback folds one expression visit into the accumulator.
type ExprCallback[T any] func(T, ExprCtx) T

// PatCallback folds one pattern visit into the accumulator.
type PatCallback[T any] func(T, PatCtx) T

// TermCallback folds one term visit into the accumulator.
type TermCallback[T any] func(T, TermCtx) T

type foldCtx[T any] struct {
	body       *Body
	strategy   Strategy
	view       View
	macroStack []ExprID
	onExpr     ExprCallback[T]
	onPat      PatCallback[T]
	onTerm     TermCallback[T]
}

func noopExpr[T any](acc T, _ ExprCtx) T { return acc }
func noopPat[T any](acc T, _ PatCtx) T   { return acc }
func noopTerm[T any](acc T, _ TermCtx) T { return acc }

// FoldExpr traverses the expression tree rooted at exprID.
func FoldExpr[T any](body *Body, strategy Strategy, exprID ExprID, initial T, onExpr ExprCallback[T], onPat PatCallback[T]) T {
	return FoldExprWithView(body, ViewExpanded, strategy, exprID, initial, onExpr, onPat)
}

// FoldExprWithView traverses with an explicit macro view.
func FoldExprWithView[T any](body *Body, view View, strategy Strategy, exprID ExprID, initial T, onExpr ExprCallback[T], onPat PatCallback[T]) T {
	ctx := &foldCtx[T]{
		body:     body,
		strategy: strategy,
		view:     view,
		onExpr:   onExpr,
		onPat:    onPat,
		onTerm:   noopTerm[T],
	}
	return ctx.foldExpr(exprID, initial)
}

// FoldPat traverses the pattern tree rooted at patID.
func FoldPat[T any](body *Body, strategy Strategy, patID PatID, initial T, onExpr ExprCallback[T], onPat PatCallback[T]) T {
	ctx := &foldCtx[T]{
		body:     body,
		strategy: strategy,
		onExpr:   onExpr,
		onPat:    onPat,
		onTerm:   noopTerm[T],
	}
	return ctx.foldPat(patID, initial)
}

// FoldTerm traverses the term tree rooted at termID.
func FoldTerm[T any](body *Body, strategy Strategy, termID TermID, initial T, onTerm TermCallback[T]) T {
	ctx := &foldCtx[T]{
		body:     body,
		strategy: strategy,
		onExpr:   noopExpr[T],
		onPat:    noopPat[T],
		onTerm:   onTerm,
	}
	return ctx.foldTerm(termID, initial)
}

// FoldFunction traverses every top-level clause of a function body:
// образцы параметров, группы охран, затем выражения тела.
func FoldFunction[T any](body *Body, strategy Strategy, initial T, onExpr ExprCallback[T], onPat PatCallback[T]) T {
	ctx := &foldCtx[T]{
		body:     body,
		strategy: strategy,
		onExpr:   onExpr,
		onPat:    onPat,
		onTerm:   noopTerm[T],
	}
	acc := initial
	for _, clauseID := range body.TopClauses {
		clause := body.Clause(clauseID)
		if clause == nil {
			continue
		}
		acc = ctx.foldClause(*clause, acc)
	}
	return acc
}

// FoldClause traverses a single clause: параметры, охраны, тело.
func FoldClause[T any](body *Body, strategy Strategy, clauseID ClauseID, initial T, onExpr ExprCallback[T], onPat PatCallback[T]) T {
	ctx := &foldCtx[T]{
		body:     body,
		strategy: strategy,
		onExpr:   onExpr,
		onPat:    onPat,
		onTerm:   noopTerm[T],
	}
	clause := body.Clause(clauseID)
	if clause == nil {
		return initial
	}
	return ctx.foldClause(*clause, initial)
}

func (c *foldCtx[T]) inMacro() ExprID {
	if len(c.macroStack) == 0 {
		return NoExprID
	}
	return c.macroStack[0]
}

func (c *foldCtx[T]) foldExprs(ids []ExprID, acc T) T {
	for _, id := range ids {
		acc = c.foldExpr(id, acc)
	}
	return acc
}

func (c *foldCtx[T]) foldPats(ids []PatID, acc T) T {
	for _, id := range ids {
		acc = c.foldPat(id, acc)
	}
	return acc
}

func (c *foldCtx[T]) foldGuards(guards [][]ExprID, acc T) T {
	for _, group := range guards {
		acc = c.foldExprs(group, acc)
	}
	return acc
}

func (c *foldCtx[T]) foldCRClauses(clauses []CRClause, acc T) T {
	for _, clause := range clauses {
		acc = c.foldPat(clause.Pat, acc)
		acc = c.foldGuards(clause.Guards, acc)
		acc = c.foldExprs(clause.Exprs, acc)
	}
	return acc
}

func (c *foldCtx[T]) foldClause(clause Clause, acc T) T {
	acc = c.foldPats(clause.Pats, acc)
	acc = c.foldGuards(clause.Guards, acc)
	return c.foldExprs(clause.Exprs, acc)
}

func (c *foldCtx[T]) foldExpr(exprID ExprID, initial T) T {
	node := c.body.Expr(exprID)
	if node == nil {
		return initial
	}
	acc := initial
	if c.strategy == TopDown || c.strategy == Both {
		acc = c.onExpr(acc, ExprCtx{On: OnEntry, InMacro: c.inMacro(), ID: exprID, Expr: *node})
	}

	switch data := node.Data.(type) {
	case nil:
		// ExprMissing
	case Literal, VarData, RecordIndexData:
		// листья
	case MatchData:
		acc = c.foldPat(data.Lhs, acc)
		acc = c.foldExpr(data.Rhs, acc)
	case TupleData:
		acc = c.foldExprs(data.Exprs, acc)
	case ListData:
		acc = c.foldExprs(data.Exprs, acc)
		if data.Tail.IsValid() {
			acc = c.foldExpr(data.Tail, acc)
		}
	case BinaryData:
		for _, seg := range data.Segs {
			acc = c.foldExpr(seg.Elem, acc)
			if seg.Size.IsValid() {
				acc = c.foldExpr(seg.Size, acc)
			}
		}
	case UnaryOpData:
		acc = c.foldExpr(data.Expr, acc)
	case BinaryOpData:
		acc = c.foldExpr(data.Lhs, acc)
		acc = c.foldExpr(data.Rhs, acc)
	case RecordData:
		for _, f := range data.Fields {
			acc = c.foldExpr(f.Value, acc)
		}
	case RecordUpdateData:
		acc = c.foldExpr(data.Expr, acc)
		for _, f := range data.Fields {
			acc = c.foldExpr(f.Value, acc)
		}
	case RecordFieldData:
		acc = c.foldExpr(data.Expr, acc)
	case MapData:
		for _, f := range data.Fields {
			acc = c.foldExpr(f.Key, acc)
			acc = c.foldExpr(f.Value, acc)
		}
	case MapUpdateData:
		acc = c.foldExpr(data.Expr, acc)
		for _, f := range data.Fields {
			acc = c.foldExpr(f.Key, acc)
			acc = c.foldExpr(f.Value, acc)
		}
	case CatchData:
		acc = c.foldExpr(data.Expr, acc)
	case MacroCallData:
		if c.view == ViewUnexpanded || !data.Expansion.IsValid() {
			acc = c.foldExprs(data.Args, acc)
		} else {
			c.macroStack = append(c.macroStack, exprID)
			acc = c.foldExpr(data.Expansion, acc)
			c.macroStack = c.macroStack[:len(c.macroStack)-1]
		}
	case CallData:
		if data.Target.Module.IsValid() {
			acc = c.foldExpr(data.Target.Module, acc)
		}
		acc = c.foldExpr(data.Target.Name, acc)
		acc = c.foldExprs(data.Args, acc)
	case ComprehensionData:
		acc = c.foldExpr(data.Builder, acc)
		if data.Value.IsValid() {
			acc = c.foldExpr(data.Value, acc)
		}
		for _, ce := range data.Exprs {
			switch ce.Kind {
			case CompExprFilter:
				acc = c.foldExpr(ce.Expr, acc)
			case CompExprMapGenerator:
				acc = c.foldPat(ce.Pat, acc)
				acc = c.foldPat(ce.Val, acc)
				acc = c.foldExpr(ce.Expr, acc)
			default:
				acc = c.foldPat(ce.Pat, acc)
				acc = c.foldExpr(ce.Expr, acc)
			}
		}
	case BlockData:
		acc = c.foldExprs(data.Exprs, acc)
	case IfData:
		for _, clause := range data.Clauses {
			acc = c.foldGuards(clause.Guards, acc)
			acc = c.foldExprs(clause.Exprs, acc)
		}
	case CaseData:
		acc = c.foldExpr(data.Expr, acc)
		acc = c.foldCRClauses(data.Clauses, acc)
	case ReceiveData:
		acc = c.foldCRClauses(data.Clauses, acc)
		if data.After != nil {
			acc = c.foldExpr(data.After.Timeout, acc)
			acc = c.foldExprs(data.After.Exprs, acc)
		}
	case TryData:
		acc = c.foldExprs(data.Exprs, acc)
		acc = c.foldCRClauses(data.OfClauses, acc)
		for _, clause := range data.CatchClauses {
			if clause.Class.IsValid() {
				acc = c.foldPat(clause.Class, acc)
			}
			acc = c.foldPat(clause.Reason, acc)
			if clause.Stack.IsValid() {
				acc = c.foldPat(clause.Stack, acc)
			}
			acc = c.foldGuards(clause.Guards, acc)
			acc = c.foldExprs(clause.Exprs, acc)
		}
		acc = c.foldExprs(data.After, acc)
	case CaptureFunData:
		if data.Target.Module.IsValid() {
			acc = c.foldExpr(data.Target.Module, acc)
		}
		acc = c.foldExpr(data.Target.Name, acc)
		acc = c.foldExpr(data.Arity, acc)
	case ClosureData:
		for _, clauseID := range data.Clauses {
			if clause := c.body.Clause(clauseID); clause != nil {
				acc = c.foldClause(*clause, acc)
			}
		}
	case MaybeData:
		for _, item := range data.Exprs {
			if item.Kind == MaybeCond {
				acc = c.foldPat(item.Lhs, acc)
			}
			acc = c.foldExpr(item.Rhs, acc)
		}
		acc = c.foldCRClauses(data.ElseClauses, acc)
	case ParenData:
		acc = c.foldExpr(data.Expr, acc)
	}

	if c.strategy == BottomUp || c.strategy == Both {
		acc = c.onExpr(acc, ExprCtx{On: OnExit, InMacro: c.inMacro(), ID: exprID, Expr: *node})
	}
	return acc
}

func (c *foldCtx[T]) foldPat(patID PatID, initial T) T {
	node := c.body.Pat(patID)
	if node == nil {
		return initial
	}
	acc := initial
	if c.strategy == TopDown || c.strategy == Both {
		acc = c.onPat(acc, PatCtx{On: OnEntry, InMacro: c.inMacro(), ID: patID, Pat: *node})
	}

	switch data := node.Data.(type) {
	case nil:
		// PatMissing
	case PatLiteralData, PatVarData, PatRecordIndexData:
		// листья
	case PatMatchData:
		acc = c.foldPat(data.Lhs, acc)
		acc = c.foldPat(data.Rhs, acc)
	case PatTupleData:
		acc = c.foldPats(data.Pats, acc)
	case PatListData:
		acc = c.foldPats(data.Pats, acc)
		if data.Tail.IsValid() {
			acc = c.foldPat(data.Tail, acc)
		}
	case PatBinaryData:
		for _, seg := range data.Segs {
			acc = c.foldPat(seg.Elem, acc)
			if seg.Size.IsValid() {
				acc = c.foldExpr(seg.Size, acc)
			}
		}
	case PatUnaryOpData:
		acc = c.foldPat(data.Pat, acc)
	case PatBinaryOpData:
		acc = c.foldPat(data.Lhs, acc)
		acc = c.foldPat(data.Rhs, acc)
	case PatRecordData:
		for _, f := range data.Fields {
			acc = c.foldPat(f.Value, acc)
		}
	case PatMapData:
		for _, f := range data.Fields {
			acc = c.foldExpr(f.Key, acc)
			acc = c.foldPat(f.Value, acc)
		}
	case PatMacroCallData:
		if c.view == ViewUnexpanded || !data.Expansion.IsValid() {
			acc = c.foldExprs(data.Args, acc)
		} else {
			acc = c.foldPat(data.Expansion, acc)
			acc = c.foldExprs(data.Args, acc)
		}
	}

	if c.strategy == BottomUp || c.strategy == Both {
		acc = c.onPat(acc, PatCtx{On: OnExit, InMacro: c.inMacro(), ID: patID, Pat: *node})
	}
	return acc
}

func (c *foldCtx[T]) foldTerm(termID TermID, initial T) T {
	node := c.body.Term(termID)
	if node == nil {
		return initial
	}
	acc := initial
	if c.strategy == TopDown || c.strategy == Both {
		acc = c.onTerm(acc, TermCtx{On: OnEntry, InMacro: c.inMacro(), ID: termID, Term: *node})
	}

	switch data := node.Data.(type) {
	case nil:
	case TermLiteralData, TermCaptureFunData:
		// листья
	case TermTupleData:
		for _, id := range data.Exprs {
			acc = c.foldTerm(id, acc)
		}
	case TermListData:
		for _, id := range data.Exprs {
			acc = c.foldTerm(id, acc)
		}
		if data.Tail.IsValid() {
			acc = c.foldTerm(data.Tail, acc)
		}
	case TermMapData:
		for _, f := range data.Fields {
			acc = c.foldTerm(f.Key, acc)
			acc = c.foldTerm(f.Value, acc)
		}
	case TermMacroCallData:
		if data.Expansion.IsValid() {
			acc = c.foldTerm(data.Expansion, acc)
		}
	}

	if c.strategy == BottomUp || c.strategy == Both {
		acc = c.onTerm(acc, TermCtx{On: OnExit, InMacro: c.inMacro(), ID: termID, Term: *node})
	}
	return acc
}
