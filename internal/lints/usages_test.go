package lints

import (
	"testing"
)

func TestFunctionUsages(t *testing.T) {
	text := `-module(main).
f(X) -> X.
g() -> f(1), main:f(2), fun f/1, f(1, 2).
`
	snap, ids := testSnapshot(t, map[string]string{"/proj/src/main.erl": text})
	sema := NewSema(snap, ids["/proj/src/main.erl"])

	fID := snap.Names().Intern("f", 1)
	usages := FunctionUsages(sema, fID)
	// f(1), main:f(2) и fun f/1; вызов f(1, 2) имеет другую арность.
	if len(usages) != 3 {
		t.Fatalf("usages = %d: %+v", len(usages), usages)
	}

	hID := snap.Names().Intern("h", 0)
	if got := FunctionUsages(sema, hID); len(got) != 0 {
		t.Errorf("h/0 usages = %+v", got)
	}
}

func TestRecordFieldUsages(t *testing.T) {
	text := `-module(main).
-record(r,{a,b}).
f(X) -> X#r.a.
g(#r{a = V}) -> V.
`
	snap, ids := testSnapshot(t, map[string]string{"/proj/src/main.erl": text})
	sema := NewSema(snap, ids["/proj/src/main.erl"])

	rec := snap.Atoms().Intern("r")
	a := snap.Atoms().Intern("a")
	b := snap.Atoms().Intern("b")

	if got := RecordFieldUsages(sema, rec, a); len(got) != 2 {
		t.Errorf("a usages = %+v", got)
	}
	if got := RecordFieldUsages(sema, rec, b); len(got) != 0 {
		t.Errorf("b usages = %+v", got)
	}
}
