package diag

import (
	"strings"
	"testing"

	"beamlint/internal/source"
)

func diagAt(content string, needle string, code Code) (Diagnostic, *source.LineIndex, []byte) {
	idx := strings.Index(content, needle)
	if idx < 0 {
		panic("needle not found")
	}
	d := Warning(code, source.Span{
		File:  1,
		Start: uint32(idx),
		End:   uint32(idx + len(needle)),
	}, "test")
	return d, source.NewLineIndex([]byte(content)), []byte(content)
}

func TestShouldBeIgnoredByCode(t *testing.T) {
	content := "-module(main).\n% elp:ignore W0003\n-record(r,{a,b}).\n"
	d, li, text := diagAt(content, "b}", UnusedRecordField)
	if !ShouldBeIgnored(&d, li, text) {
		t.Error("W0003 should be suppressed by code")
	}
}

func TestShouldBeIgnoredByLabel(t *testing.T) {
	content := "-module(main).\n% elp:ignore unused_record_field\n-record(r,{a,b}).\n"
	d, li, text := diagAt(content, "b}", UnusedRecordField)
	if !ShouldBeIgnored(&d, li, text) {
		t.Error("W0003 should be suppressed by label")
	}
}

func TestShouldBeIgnoredWithParenthesizedLabel(t *testing.T) {
	content := "-module(main).\n% elp:ignore W0003 (unused_record_field)\n-record(r,{a,b}).\n"
	d, li, text := diagAt(content, "b}", UnusedRecordField)
	if !ShouldBeIgnored(&d, li, text) {
		t.Error("W0003 should be suppressed by the generated comment shape")
	}
}

func TestNotIgnoredDifferentCode(t *testing.T) {
	content := "-module(main).\n% elp:ignore W0002\n-record(r,{a,b}).\n"
	d, li, text := diagAt(content, "b}", UnusedRecordField)
	if ShouldBeIgnored(&d, li, text) {
		t.Error("W0003 must not be suppressed by a W0002 marker")
	}
}

func TestNotIgnoredCommentTooFar(t *testing.T) {
	content := "% elp:ignore W0003\n-module(main).\n-record(r,{a,b}).\n"
	d, li, text := diagAt(content, "b}", UnusedRecordField)
	if ShouldBeIgnored(&d, li, text) {
		t.Error("marker two lines above must not suppress")
	}
}

func TestWithIgnoreFix(t *testing.T) {
	d := Warning(UnusedRecordField, source.Span{File: 1, Start: 25, End: 26}, "test")
	d = WithIgnoreFix(d)
	if len(d.Fixes) != 1 {
		t.Fatalf("fixes = %d", len(d.Fixes))
	}
	f := d.Fixes[0]
	if f.ID != "ignore_problem" || len(f.Edits) != 1 {
		t.Fatalf("fix = %+v", f)
	}
	edit := f.Edits[0]
	if !edit.Span.Empty() || edit.Span.Start != 25 {
		t.Errorf("edit span = %v", edit.Span)
	}
	want := "% elp:ignore W0003 (unused_record_field)\n"
	if edit.NewText != want {
		t.Errorf("edit text = %q, want %q", edit.NewText, want)
	}
}

func TestSyntaxErrorNotSuppressible(t *testing.T) {
	d := Error(SyntaxError, source.Span{File: 1}, "Syntax Error: boom")
	d = WithIgnoreFix(d)
	if len(d.Fixes) != 0 {
		t.Error("syntax errors must not carry an ignore fix")
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(16)
	bag.Add(Warning(UnusedMacro, source.Span{File: 2, Start: 5, End: 6}, "b"))
	bag.Add(Warning(UnusedRecordField, source.Span{File: 1, Start: 9, End: 10}, "c"))
	bag.Add(Warning(UnusedMacro, source.Span{File: 1, Start: 2, End: 3}, "a"))
	bag.Add(Warning(UnusedRecordField, source.Span{File: 1, Start: 2, End: 3}, "a2"))
	bag.Sort()

	items := bag.Items()
	if items[0].Range.File != 1 || items[0].Range.Start != 2 {
		t.Errorf("first = %+v", items[0])
	}
	// При равных диапазонах порядок задаёт код: W0002 раньше W0003.
	if !items[0].Code.SameCode(UnusedMacro) || !items[1].Code.SameCode(UnusedRecordField) {
		t.Errorf("code order = %s, %s", items[0].Code, items[1].Code)
	}
	if items[3].Range.File != 2 {
		t.Errorf("last = %+v", items[3])
	}
}
