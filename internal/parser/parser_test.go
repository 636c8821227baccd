package parser

import (
	"testing"

	"beamlint/internal/ast"
)

func parse(t *testing.T, text string) *ast.File {
	t.Helper()
	return ParseFile(1, []byte(text))
}

func parseClean(t *testing.T, text string) *ast.File {
	t.Helper()
	file := parse(t, text)
	if len(file.Errors) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", text, file.Errors)
	}
	return file
}

func TestParseModuleAttr(t *testing.T) {
	file := parseClean(t, "-module(main).\n")
	if len(file.Forms) != 1 {
		t.Fatalf("forms = %d", len(file.Forms))
	}
	attr, ok := file.Forms[0].(*ast.ModuleAttr)
	if !ok {
		t.Fatalf("form type = %T", file.Forms[0])
	}
	if attr.Name.Text != "main" {
		t.Errorf("module name = %q", attr.Name.Text)
	}
}

func TestParseFunDecl(t *testing.T) {
	file := parseClean(t, "foo(2)->3.\n")
	decl, ok := file.Forms[0].(*ast.FunDecl)
	if !ok {
		t.Fatalf("form type = %T", file.Forms[0])
	}
	if len(decl.Clauses) != 1 {
		t.Fatalf("clauses = %d", len(decl.Clauses))
	}
	clause := decl.Clauses[0]
	if clause.Name.Text != "foo" || len(clause.Params) != 1 || len(clause.Body) != 1 {
		t.Errorf("clause = %+v", clause)
	}
	// Диапазон формы покрывает весь текст до точки включительно.
	if decl.Rng.Start != 0 || decl.Rng.End != 10 {
		t.Errorf("form span = %v", decl.Rng)
	}
}

func TestParseFunDeclMultiClause(t *testing.T) {
	file := parseClean(t, "foo(1)->2;\nfoo(2)->3.\n")
	decl := file.Forms[0].(*ast.FunDecl)
	if len(decl.Clauses) != 2 {
		t.Fatalf("clauses = %d", len(decl.Clauses))
	}
	if len(decl.Seps) != 1 || !decl.Seps[0].Present {
		t.Errorf("seps = %+v", decl.Seps)
	}
}

func TestParseFunDeclMissingSemi(t *testing.T) {
	file := parse(t, "-module(main).\nfoo(1)->2\nfoo(2)->3.\n")
	if len(file.Forms) != 2 {
		t.Fatalf("forms = %d", len(file.Forms))
	}
	decl := file.Forms[1].(*ast.FunDecl)
	if len(decl.Clauses) != 2 {
		t.Fatalf("clauses = %d", len(decl.Clauses))
	}
	if len(decl.Seps) != 1 || decl.Seps[0].Present {
		t.Fatalf("seps = %+v", decl.Seps)
	}
	// PrevSpan указывает на первую клаузу целиком: foo(1)->2
	sep := decl.Seps[0]
	if sep.PrevSpan.Start != 15 || sep.PrevSpan.End != 24 {
		t.Errorf("prev span = %v", sep.PrevSpan)
	}
}

func TestParseExportMissingComma(t *testing.T) {
	file := parse(t, "-module(main).\n-export([foo/0 bar/1]).\n")
	attr := file.Forms[1].(*ast.ExportAttr)
	if len(attr.Entries) != 2 {
		t.Fatalf("entries = %d", len(attr.Entries))
	}
	if len(attr.Seps) != 1 || attr.Seps[0].Present {
		t.Fatalf("seps = %+v", attr.Seps)
	}
	if attr.Entries[0].Name != "foo" || attr.Entries[0].Arity != 0 {
		t.Errorf("entry 0 = %+v", attr.Entries[0])
	}
}

func TestParseRecordDecl(t *testing.T) {
	file := parseClean(t, "-record(r,{a,b=42}).\n")
	decl := file.Forms[0].(*ast.RecordDecl)
	if decl.Name.Text != "r" || len(decl.Fields) != 2 {
		t.Fatalf("decl = %+v", decl)
	}
	if !decl.NameSep.Present {
		t.Error("name separator should be present")
	}
	if decl.Fields[1].Default == nil {
		t.Error("field b should carry a default")
	}
}

func TestParseRecordDeclMissingNameComma(t *testing.T) {
	file := parse(t, "-record(foo  {f1, f2 = 3}).\n")
	decl := file.Forms[0].(*ast.RecordDecl)
	if decl.NameSep.Present {
		t.Error("name separator should be missing")
	}
	// PrevSpan указывает на имя записи.
	if decl.NameSep.PrevSpan != decl.Name.Rng {
		t.Errorf("prev span = %v, name = %v", decl.NameSep.PrevSpan, decl.Name.Rng)
	}
}

func TestParseDefine(t *testing.T) {
	file := parseClean(t, "-define(baz,4).\n")
	decl := file.Forms[0].(*ast.DefineDecl)
	if decl.Name.Text != "baz" || decl.Params != nil {
		t.Fatalf("decl = %+v", decl)
	}
	if _, ok := decl.Replacement.(*ast.IntLit); !ok {
		t.Errorf("replacement = %T", decl.Replacement)
	}
}

func TestParseDefineWithParams(t *testing.T) {
	file := parseClean(t, "-define(ADD(X, Y), X + Y).\n")
	decl := file.Forms[0].(*ast.DefineDecl)
	if len(decl.Params) != 2 {
		t.Fatalf("params = %+v", decl.Params)
	}
	if _, ok := decl.Replacement.(*ast.BinaryOp); !ok {
		t.Errorf("replacement = %T", decl.Replacement)
	}
}

func TestParseExpressions(t *testing.T) {
	file := parseClean(t, `f(X) ->
    case X of
        {ok, V} when V > 0 -> [A || A <- V, A =/= 0];
        _ -> try g(X) of R -> R catch error:Reason:Stk -> {Reason, Stk} after done() end
    end.
`)
	decl := file.Forms[0].(*ast.FunDecl)
	body := decl.Clauses[0].Body
	if len(body) != 1 {
		t.Fatalf("body = %d exprs", len(body))
	}
	caseExpr, ok := body[0].(*ast.CaseExpr)
	if !ok {
		t.Fatalf("expr = %T", body[0])
	}
	if len(caseExpr.Clauses) != 2 {
		t.Fatalf("case clauses = %d", len(caseExpr.Clauses))
	}
	if len(caseExpr.Clauses[0].Guards) != 1 {
		t.Errorf("guards = %+v", caseExpr.Clauses[0].Guards)
	}
	comp, ok := caseExpr.Clauses[0].Body[0].(*ast.Comprehension)
	if !ok {
		t.Fatalf("comprehension = %T", caseExpr.Clauses[0].Body[0])
	}
	if comp.Kind != ast.CompList || len(comp.Quals) != 2 {
		t.Errorf("comprehension = %+v", comp)
	}
	tryExpr, ok := caseExpr.Clauses[1].Body[0].(*ast.TryExpr)
	if !ok {
		t.Fatalf("try = %T", caseExpr.Clauses[1].Body[0])
	}
	if len(tryExpr.CatchClauses) != 1 || len(tryExpr.After) != 1 {
		t.Errorf("try = %+v", tryExpr)
	}
	cc := tryExpr.CatchClauses[0]
	if cc.Class == nil || cc.Stack == nil {
		t.Errorf("catch clause = %+v", cc)
	}
}

func TestParseRecordExpressions(t *testing.T) {
	file := parseClean(t, "f(R) -> {#r{a = 1}, R#r{b = 2}, R#r.a, #r.b}.\n")
	decl := file.Forms[0].(*ast.FunDecl)
	tuple := decl.Clauses[0].Body[0].(*ast.Tuple)
	if len(tuple.Elems) != 4 {
		t.Fatalf("tuple = %d", len(tuple.Elems))
	}
	if _, ok := tuple.Elems[0].(*ast.RecordExpr); !ok {
		t.Errorf("elem 0 = %T", tuple.Elems[0])
	}
	if _, ok := tuple.Elems[1].(*ast.RecordUpdate); !ok {
		t.Errorf("elem 1 = %T", tuple.Elems[1])
	}
	if _, ok := tuple.Elems[2].(*ast.RecordAccess); !ok {
		t.Errorf("elem 2 = %T", tuple.Elems[2])
	}
	if _, ok := tuple.Elems[3].(*ast.RecordIndex); !ok {
		t.Errorf("elem 3 = %T", tuple.Elems[3])
	}
}

func TestParseMacroCall(t *testing.T) {
	file := parseClean(t, "f() -> ?FOO + ?BAR(1, 2).\n")
	decl := file.Forms[0].(*ast.FunDecl)
	bin := decl.Clauses[0].Body[0].(*ast.BinaryOp)
	lhs := bin.Lhs.(*ast.MacroCall)
	if lhs.Name != "FOO" || lhs.HasArgs {
		t.Errorf("lhs = %+v", lhs)
	}
	rhs := bin.Rhs.(*ast.MacroCall)
	if rhs.Name != "BAR" || !rhs.HasArgs || len(rhs.Args) != 2 {
		t.Errorf("rhs = %+v", rhs)
	}
}

func TestParseFunCapture(t *testing.T) {
	file := parseClean(t, "f() -> {fun g/1, fun m:h/2, fun(X) -> X end}.\n")
	decl := file.Forms[0].(*ast.FunDecl)
	tuple := decl.Clauses[0].Body[0].(*ast.Tuple)
	local := tuple.Elems[0].(*ast.CaptureFun)
	if local.Module != nil {
		t.Errorf("local capture has module: %+v", local)
	}
	remote := tuple.Elems[1].(*ast.CaptureFun)
	if remote.Module == nil {
		t.Errorf("remote capture lost module: %+v", remote)
	}
	if _, ok := tuple.Elems[2].(*ast.FunExpr); !ok {
		t.Errorf("elem 2 = %T", tuple.Elems[2])
	}
}

func TestParseErrorRecovery(t *testing.T) {
	file := parse(t, "-module(main).\n-bogus syntax here(((.\nf() -> ok.\n")
	// Ошибка во второй форме не мешает разобрать третью.
	var haveFun bool
	for _, form := range file.Forms {
		if _, ok := form.(*ast.FunDecl); ok {
			haveFun = true
		}
	}
	if !haveFun {
		t.Error("function after a broken form was lost")
	}
}
