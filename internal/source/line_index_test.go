package source

import (
	"testing"
)

func TestLineIndexLineCol(t *testing.T) {
	content := []byte("abc\ndef\n\nghi")
	li := NewLineIndex(content)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{4, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 2, Col: 3}},
		{8, LineCol{Line: 3, Col: 1}},
		{9, LineCol{Line: 4, Col: 1}},
		{11, LineCol{Line: 4, Col: 3}},
	}
	for _, tc := range cases {
		got := li.LineCol(tc.off)
		if got != tc.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestLineIndexLineStartEnd(t *testing.T) {
	content := []byte("abc\ndef\n")
	li := NewLineIndex(content)

	start, ok := li.LineStart(1)
	if !ok || start != 0 {
		t.Errorf("LineStart(1) = %d, %v", start, ok)
	}
	start, ok = li.LineStart(2)
	if !ok || start != 4 {
		t.Errorf("LineStart(2) = %d, %v", start, ok)
	}
	if _, ok := li.LineStart(5); ok {
		t.Error("LineStart(5) should not exist")
	}

	end, ok := li.LineEnd(1)
	if !ok || end != 3 {
		t.Errorf("LineEnd(1) = %d, %v", end, ok)
	}
}

func TestLineIndexLineText(t *testing.T) {
	content := []byte("first\nsecond\nthird")
	li := NewLineIndex(content)

	if got := li.LineText(content, 2); got != "second" {
		t.Errorf("LineText(2) = %q", got)
	}
	if got := li.LineText(content, 3); got != "third" {
		t.Errorf("LineText(3) = %q", got)
	}
	if got := li.LineText(content, 4); got != "" {
		t.Errorf("LineText(4) = %q, want empty", got)
	}
}

func TestLineIndexEmpty(t *testing.T) {
	li := NewLineIndex(nil)
	if got := li.LineCol(0); got != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("empty LineCol(0) = %+v", got)
	}
	if li.LineCount() != 1 {
		t.Errorf("empty LineCount = %d", li.LineCount())
	}
}
