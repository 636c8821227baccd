package hir

import (
	"testing"
)

func foldCounts(body *Body, strategy Strategy) int {
	return FoldFunction(body, strategy, 0,
		func(acc int, _ ExprCtx) int { return acc + 1 },
		func(acc int, _ PatCtx) int { return acc + 1 })
}

func TestFoldCountingLaw(t *testing.T) {
	// Разнообразное тело: кортежи, списки, case, try, компрехеншены,
	// бинарники, записи, карты, receive, замыкания.
	text := `f(X, {A, B}) when X > 0; A =:= b ->
    L = [Y * 2 || Y <- X, Y =/= 0],
    M = #{a => 1, b => 2},
    R = #rec{f1 = A, f2 = B},
    case R#rec.f1 of
        ok -> <<X:4, A/binary>>;
        _ -> begin catch g(X), L end
    end,
    receive
        {msg, P} -> P
    after 100 -> timeout
    end,
    try h(M) of
        V -> V
    catch
        error:E:S -> {E, S}
    after
        done
    end,
    F = fun(Z) -> Z + 1 end,
    F(X).
`
	body, _, _ := lowerFirstFun(t, text)

	topDown := foldCounts(body, TopDown)
	bottomUp := foldCounts(body, BottomUp)
	both := foldCounts(body, Both)

	if topDown == 0 {
		t.Fatal("no visits")
	}
	if topDown != bottomUp {
		t.Errorf("TopDown = %d, BottomUp = %d", topDown, bottomUp)
	}
	if both != 2*topDown {
		t.Errorf("Both = %d, want %d", both, 2*topDown)
	}
}

func TestFoldVisitsInSourceOrder(t *testing.T) {
	body, _, atoms := lowerFirstFun(t, "f() -> {one, two, three}.\n")
	var order []string
	FoldExprOverClause(t, body, func(ctx ExprCtx) {
		if lit, ok := ctx.Expr.Data.(Literal); ok && lit.Kind == LiteralAtom {
			order = append(order, atoms.MustLookup(lit.Atom))
		}
	})
	want := []string{"one", "two", "three"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

// FoldExprOverClause is a small helper visiting every expression of the
// first clause top-down.
func FoldExprOverClause(t *testing.T, body *Body, visit func(ExprCtx)) {
	t.Helper()
	FoldFunction(body, TopDown, struct{}{},
		func(acc struct{}, ctx ExprCtx) struct{} {
			visit(ctx)
			return acc
		},
		func(acc struct{}, _ PatCtx) struct{} { return acc })
}

func TestFoldMacroFrames(t *testing.T) {
	text := "-define(VALUE, 42).\nf() -> ?VALUE + 1.\n"
	body, _, _ := lowerFirstFun(t, text)

	var insideMacro, outsideMacro int
	FoldFunction(body, TopDown, struct{}{},
		func(acc struct{}, ctx ExprCtx) struct{} {
			if ctx.InMacro.IsValid() {
				insideMacro++
			} else {
				outsideMacro++
			}
			return acc
		},
		func(acc struct{}, _ PatCtx) struct{} { return acc })

	if insideMacro != 1 {
		t.Errorf("nodes inside macro = %d, want 1 (the expansion literal)", insideMacro)
	}
	if outsideMacro == 0 {
		t.Error("no nodes outside macro")
	}
}

func TestFoldUnexpandedView(t *testing.T) {
	text := "-define(WRAP(X), {X}).\nf() -> ?WRAP(inner).\n"
	body, _, atoms := lowerFirstFun(t, text)
	clause := body.Clause(body.TopClauses[0])
	root := clause.Exprs[0]

	sawInner := false
	sawTuple := false
	FoldExprWithView(body, ViewUnexpanded, TopDown, root, struct{}{},
		func(acc struct{}, ctx ExprCtx) struct{} {
			switch data := ctx.Expr.Data.(type) {
			case Literal:
				if data.Kind == LiteralAtom && atoms.MustLookup(data.Atom) == "inner" {
					sawInner = true
				}
			case TupleData:
				sawTuple = true
			}
			return acc
		},
		func(acc struct{}, _ PatCtx) struct{} { return acc })

	if !sawInner {
		t.Error("unexpanded view must visit macro arguments")
	}
	if sawTuple {
		t.Error("unexpanded view must not visit the expansion")
	}
}
