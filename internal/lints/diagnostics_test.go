package lints

import (
	"strings"
	"testing"

	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/fix"
	"beamlint/internal/source"
)

// testSnapshot seeds a database with files keyed by path and returns a
// snapshot plus path→id mapping.
func testSnapshot(t *testing.T, files map[string]string) (*db.Snapshot, map[string]source.FileID) {
	t.Helper()
	atoms := source.NewInterner()
	database := db.New(atoms, source.NewNameTable(atoms))

	change := db.Change{
		FilesChanged:    make(map[source.FileID][]byte),
		RootAssignments: make(map[source.FileID]source.SourceRootID),
		Paths:           make(map[source.FileID]string),
		AppNames:        make(map[source.SourceRootID]string),
	}
	ids := make(map[string]source.FileID)
	next := source.FileID(1)
	change.AppNames[1] = "app"
	for path, text := range files {
		ids[path] = next
		change.FilesChanged[next] = []byte(text)
		change.Paths[next] = path
		change.RootAssignments[next] = 1
		next++
	}
	database.ApplyChange(change)
	return database.Snapshot(), ids
}

func runDiagnostics(t *testing.T, files map[string]string, target string, cfg *Config) []diag.Diagnostic {
	t.Helper()
	snap, ids := testSnapshot(t, files)
	id, ok := ids[target]
	if !ok {
		t.Fatalf("no file %q", target)
	}
	return Diagnostics(snap, cfg, id, false)
}

func codesOf(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code.AsCode())
	}
	return out
}

func filterCode(diags []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	return FilterByCode(diags, code)
}

func TestMissingModuleDefinition(t *testing.T) {
	text := "foo(2)->3.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	missing := filterCode(diags, diag.MissingModule)
	if len(missing) != 1 {
		t.Fatalf("L1201 count = %d (all: %v)", len(missing), codesOf(diags))
	}
	d := missing[0]
	if d.Severity != diag.SevError {
		t.Errorf("severity = %v", d.Severity)
	}
	if d.Message != "no module definition" {
		t.Errorf("message = %q", d.Message)
	}
	// Диапазон покрывает foo(2)->3. целиком.
	if d.Range.Start != 0 || d.Range.End != 10 {
		t.Errorf("range = %v", d.Range)
	}
}

func TestMissingModuleSkipsPreprocessor(t *testing.T) {
	text := "-file(\"foo.erl\",1).\n-define(baz,4).\nfoo(2)->?baz.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	missing := filterCode(diags, diag.MissingModule)
	if len(missing) != 1 {
		t.Fatalf("L1201 count = %d", len(missing))
	}
	start := strings.Index(text, "foo(2)")
	if missing[0].Range.Start != uint32(start) {
		t.Errorf("range = %v, want start %d", missing[0].Range, start)
	}
}

func TestNoMissingModuleWhenDeclared(t *testing.T) {
	text := "-module(main).\nfoo(2)->3.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	if n := len(filterCode(diags, diag.MissingModule)); n != 0 {
		t.Errorf("L1201 count = %d", n)
	}
}

func TestHeadMismatchMissingSemi(t *testing.T) {
	text := "-module(main).\nfoo(1)->2\nfoo(2)->3.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	missing := filterCode(diags, diag.MissingSeparator(""))
	if len(missing) != 1 {
		t.Fatalf("W0004 count = %d (all: %v)", len(missing), codesOf(diags))
	}
	d := missing[0]
	if d.Severity != diag.SevWarning {
		t.Errorf("severity = %v", d.Severity)
	}
	if d.Message != "Missing ';'" {
		t.Errorf("message = %q", d.Message)
	}
	// Диапазон — первая клауза: foo(1)->2
	start := uint32(strings.Index(text, "foo(1)"))
	if d.Range.Start != start || d.Range.End != start+9 {
		t.Errorf("range = %v", d.Range)
	}
}

func TestExportMissingComma(t *testing.T) {
	text := "-module(main).\n-export([foo/0 bar/1]).\nfoo() -> ok.\nbar(X) -> X.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	missing := filterCode(diags, diag.MissingSeparator(""))
	if len(missing) != 1 {
		t.Fatalf("W0004 count = %d (all: %v)", len(missing), codesOf(diags))
	}
	if missing[0].Message != "Missing ','" {
		t.Errorf("message = %q", missing[0].Message)
	}
	// Диапазон — предыдущий элемент: foo/0
	start := uint32(strings.Index(text, "foo/0"))
	if missing[0].Range.Start != start {
		t.Errorf("range = %v", missing[0].Range)
	}
}

func TestUnusedRecordField(t *testing.T) {
	text := "-module(main).\n-record(r,{a,b}).\nf(X) -> X#r.a.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	unused := filterCode(diags, diag.UnusedRecordField)
	if len(unused) != 1 {
		t.Fatalf("W0003 count = %d (all: %v)", len(unused), codesOf(diags))
	}
	d := unused[0]
	if d.Message != "Unused record field (r.b)" {
		t.Errorf("message = %q", d.Message)
	}
	bOff := uint32(strings.Index(text, "b}"))
	if d.Range.Start != bOff || d.Range.End != bOff+1 {
		t.Errorf("range = %v, want %d..%d", d.Range, bOff, bOff+1)
	}
}

func TestUnusedRecordFieldSuppressed(t *testing.T) {
	text := "-module(main).\n% elp:ignore W0003 (unused_record_field)\n-record(r,{a,b}).\nf(X) -> X#r.a.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	if n := len(filterCode(diags, diag.UnusedRecordField)); n != 0 {
		t.Errorf("W0003 should be suppressed, got %d", n)
	}
}

func TestIgnoreFixAttached(t *testing.T) {
	text := "-module(main).\n-record(r,{a,b}).\nf(X) -> X#r.a.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	unused := filterCode(diags, diag.UnusedRecordField)
	if len(unused) != 1 {
		t.Fatalf("W0003 count = %d", len(unused))
	}
	fixes := unused[0].Fixes
	if len(fixes) == 0 {
		t.Fatal("no fixes")
	}
	last := fixes[len(fixes)-1]
	if last.ID != "ignore_problem" {
		t.Errorf("last fix = %+v", last)
	}
	if !strings.Contains(last.Edits[0].NewText, "% elp:ignore W0003 (unused_record_field)") {
		t.Errorf("ignore text = %q", last.Edits[0].NewText)
	}
}

func TestRedundantAssignment(t *testing.T) {
	text := "-module(main).\ndo()->X=42, Y=X, bar(Y), Y.\nbar(_) -> ok.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	redundant := filterCode(diags, diag.RedundantAssignment)
	if len(redundant) != 1 {
		t.Fatalf("W0009 count = %d (all: %v)", len(redundant), codesOf(diags))
	}
	d := redundant[0]
	if d.Severity != diag.SevWeakWarning {
		t.Errorf("severity = %v", d.Severity)
	}
	if d.Message != "assignment is redundant" {
		t.Errorf("message = %q", d.Message)
	}
	// Диапазон — Y=X.
	start := uint32(strings.Index(text, "Y=X"))
	if d.Range.Start != start || d.Range.End != start+3 {
		t.Errorf("range = %v", d.Range)
	}

	// Применение первого фикса инлайнит Y повсюду.
	out, err := fix.ApplyFix([]byte(text), d.Fixes[0])
	if err != nil {
		t.Fatal(err)
	}
	want := "-module(main).\ndo()->X=42, X=X, bar(X), X.\nbar(_) -> ok.\n"
	if string(out) != want {
		t.Errorf("after fix:\n got %q\nwant %q", out, want)
	}
}

func TestTrivialMatch(t *testing.T) {
	text := "-module(main).\ndo()->X=42, X=X, bar(X), X.\nbar(_) -> ok.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	trivial := filterCode(diags, diag.TrivialMatch)
	if len(trivial) != 1 {
		t.Fatalf("W0007 count = %d (all: %v)", len(trivial), codesOf(diags))
	}
	out, err := fix.ApplyFix([]byte(text), trivial[0].Fixes[0])
	if err != nil {
		t.Fatal(err)
	}
	want := "-module(main).\ndo()->X=42, X, bar(X), X.\nbar(_) -> ok.\n"
	if string(out) != want {
		t.Errorf("after fix:\n got %q\nwant %q", out, want)
	}
}

func TestDisabledCode(t *testing.T) {
	text := "-module(main).\n-record(r,{a,b}).\nf(X) -> X#r.a.\n"
	cfg := NewConfig().Disable(diag.UnusedRecordField)
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", cfg)
	if n := len(filterCode(diags, diag.UnusedRecordField)); n != 0 {
		t.Errorf("disabled code still reported: %d", n)
	}
}

func TestExperimentalGate(t *testing.T) {
	text := "-module(main).\ndo()->X=42, Y=X, bar(Y), Y.\nbar(_) -> ok.\n"
	cfg := NewConfig()
	cfg.DisableExperimental = true
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", cfg)
	if n := len(filterCode(diags, diag.RedundantAssignment)); n != 0 {
		t.Errorf("experimental pass ran while disabled: %d", n)
	}
}

func TestSyntaxErrorsCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("-module(main).\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("f) ->.\n")
	}
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": sb.String()}, "/proj/src/main.erl", nil)
	syntax := filterCode(diags, diag.SyntaxError)
	if len(syntax) == 0 {
		t.Fatal("no syntax errors")
	}
	if len(syntax) > 128 {
		t.Errorf("syntax errors = %d, cap is 128", len(syntax))
	}
}

func TestHeadMismatchPass(t *testing.T) {
	text := "-module(main).\nfoo(1)->2;\nfop(2)->3.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	hm := filterCode(diags, diag.HeadMismatch)
	if len(hm) != 1 {
		t.Fatalf("P1700 count = %d (all: %v)", len(hm), codesOf(diags))
	}
	start := uint32(strings.Index(text, "fop"))
	if hm[0].Range.Start != start || hm[0].Range.End != start+3 {
		t.Errorf("range = %v", hm[0].Range)
	}
}

func TestModuleMismatchPass(t *testing.T) {
	text := "-module(wrong).\nf() -> ok.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	mm := filterCode(diags, diag.ModuleMismatch)
	if len(mm) != 1 {
		t.Fatalf("W0001 count = %d", len(mm))
	}
	if !strings.Contains(mm[0].Message, "wrong") || !strings.Contains(mm[0].Message, "main") {
		t.Errorf("message = %q", mm[0].Message)
	}
}

func TestUnusedMacroPass(t *testing.T) {
	text := "-module(main).\n-define(USED, 1).\n-define(UNUSED, 2).\nf() -> ?USED.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	unused := filterCode(diags, diag.UnusedMacro)
	if len(unused) != 1 {
		t.Fatalf("W0002 count = %d (all: %v)", len(unused), codesOf(diags))
	}
	if unused[0].Message != "Unused macro (UNUSED)" {
		t.Errorf("message = %q", unused[0].Message)
	}
}

func TestUnusedFunctionArgPass(t *testing.T) {
	text := "-module(main).\nf(X, Y) -> X.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	unused := filterCode(diags, diag.UnusedFunctionArg)
	if len(unused) != 1 {
		t.Fatalf("W0010 count = %d (all: %v)", len(unused), codesOf(diags))
	}
	out, err := fix.ApplyFix([]byte(text), unused[0].Fixes[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "f(X, _Y)") {
		t.Errorf("after fix: %q", out)
	}
}

func TestEffectFreeStatementPass(t *testing.T) {
	text := "-module(main).\nf(X) -> {X, 1}, ok.\n"
	diags := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	if n := len(filterCode(diags, diag.StatementHasNoEffect)); n != 1 {
		t.Fatalf("W0006 count = %d (all: %v)", n, codesOf(diags))
	}
}

func TestOrderingDeterministic(t *testing.T) {
	text := "-module(main).\n-record(r,{a,b}).\nf(X, Y) -> X#r.a.\n"
	first := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	second := runDiagnostics(t, map[string]string{"/proj/src/main.erl": text}, "/proj/src/main.erl", nil)
	a := codesOf(first)
	b := codesOf(second)
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Errorf("order differs: %v vs %v", a, b)
	}
	// Проверяем сортировку по началу диапазона.
	for i := 1; i < len(first); i++ {
		if first[i-1].Range.Start > first[i].Range.Start {
			t.Errorf("diags out of order at %d: %v after %v", i, first[i].Range, first[i-1].Range)
		}
	}
}
