package fix

import (
	"errors"
	"testing"

	"beamlint/internal/diag"
	"beamlint/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestApplyEditsReplace(t *testing.T) {
	content := []byte("do()->X=42, Y=X, bar(Y), Y.")
	edits := []diag.TextEdit{
		{Span: span(12, 13), NewText: "X", OldText: "Y"},
		{Span: span(21, 22), NewText: "X", OldText: "Y"},
		{Span: span(25, 26), NewText: "X", OldText: "Y"},
	}
	out, err := ApplyEdits(content, edits)
	if err != nil {
		t.Fatal(err)
	}
	want := "do()->X=42, X=X, bar(X), X."
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestApplyEditsInsert(t *testing.T) {
	content := []byte("abcdef")
	out, err := ApplyEdits(content, []diag.TextEdit{
		{Span: span(3, 3), NewText: "XYZ"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "abcXYZdef" {
		t.Errorf("got %q", out)
	}
}

func TestApplyEditsDelete(t *testing.T) {
	content := []byte("abcdef")
	out, err := ApplyEdits(content, []diag.TextEdit{
		{Span: span(1, 3), NewText: "", OldText: "bc"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "adef" {
		t.Errorf("got %q", out)
	}
}

func TestApplyEditsOverlap(t *testing.T) {
	content := []byte("abcdef")
	_, err := ApplyEdits(content, []diag.TextEdit{
		{Span: span(1, 4), NewText: "x"},
		{Span: span(3, 5), NewText: "y"},
	})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
}

func TestApplyEditsGuardMismatch(t *testing.T) {
	content := []byte("abcdef")
	_, err := ApplyEdits(content, []diag.TextEdit{
		{Span: span(0, 3), NewText: "x", OldText: "zzz"},
	})
	if err == nil {
		t.Fatal("expected a guard mismatch error")
	}
}

func TestApplyEditsOutOfOrderInputSorted(t *testing.T) {
	// Правки можно подавать в любом порядке: движок сортирует сам.
	content := []byte("0123456789")
	out, err := ApplyEdits(content, []diag.TextEdit{
		{Span: span(8, 9), NewText: "B"},
		{Span: span(1, 2), NewText: "A"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "0A234567B9" {
		t.Errorf("got %q", out)
	}
}

func TestFirstFix(t *testing.T) {
	d := diag.Warning(diag.UnusedRecordField, span(0, 1), "x")
	if _, ok := FirstFix(&d); ok {
		t.Error("diagnostic without fixes must report none")
	}
	d = d.WithFix("first", "first fix")
	d = d.WithFix("second", "second fix")
	f, ok := FirstFix(&d)
	if !ok || f.ID != "first" {
		t.Errorf("first fix = %+v, %v", f, ok)
	}
}
