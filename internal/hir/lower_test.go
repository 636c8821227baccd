package hir

import (
	"testing"

	"beamlint/internal/ast"
	"beamlint/internal/parser"
	"beamlint/internal/source"
)

func lowerFirstFun(t *testing.T, text string) (*Body, *DefMap, *source.Interner) {
	t.Helper()
	atoms := source.NewInterner()
	names := source.NewNameTable(atoms)
	file := parser.ParseFile(1, []byte(text))
	fl := NewFormList(file)
	dm := BuildDefMap(fl, atoms, names)

	var decl *ast.FunDecl
	fl.FunDecls(func(_ FormID, d *ast.FunDecl) {
		if decl == nil {
			decl = d
		}
	})
	if decl == nil {
		t.Fatalf("no function declaration in %q", text)
	}
	lw := NewLowerer(atoms, dm)
	return lw.LowerFunction(decl), dm, atoms
}

func TestLowerSimpleFunction(t *testing.T) {
	body, _, atoms := lowerFirstFun(t, "do() -> X = 42, bar(X), X.\n")
	if len(body.TopClauses) != 1 {
		t.Fatalf("clauses = %d", len(body.TopClauses))
	}
	clause := body.Clause(body.TopClauses[0])
	if len(clause.Exprs) != 3 {
		t.Fatalf("body exprs = %d", len(clause.Exprs))
	}

	match := body.Expr(clause.Exprs[0])
	if match.Kind != ExprMatch {
		t.Fatalf("first expr kind = %v", match.Kind)
	}
	md := match.Data.(MatchData)
	pat := body.Pat(md.Lhs)
	if pat.Kind != PatVar {
		t.Fatalf("lhs kind = %v", pat.Kind)
	}
	if atoms.MustLookup(pat.Data.(PatVarData).Name) != "X" {
		t.Error("lhs is not X")
	}

	call := body.Expr(clause.Exprs[1])
	if call.Kind != ExprCall {
		t.Fatalf("second expr kind = %v", call.Kind)
	}
	cd := call.Data.(CallData)
	if cd.Target.Module.IsValid() || len(cd.Args) != 1 {
		t.Errorf("call = %+v", cd)
	}
}

func TestLowerDeterministicIDs(t *testing.T) {
	text := "f(A, B) -> case A of ok -> B; _ -> {A, B} end.\n"
	body1, _, _ := lowerFirstFun(t, text)
	body2, _, _ := lowerFirstFun(t, text)
	if body1.Exprs.Len() != body2.Exprs.Len() || body1.Pats.Len() != body2.Pats.Len() {
		t.Errorf("lowering is not deterministic: %d/%d vs %d/%d",
			body1.Exprs.Len(), body1.Pats.Len(), body2.Exprs.Len(), body2.Pats.Len())
	}
}

func TestSourceMapRoundTrip(t *testing.T) {
	body, _, _ := lowerFirstFun(t, "f(X) -> {X, [1, 2 | X], <<X:4>>, X#r{a = 1}}.\n")

	count := 0
	body.Exprs.Each(func(raw uint32, _ *Expr) {
		id := ExprID(raw)
		node, ok := body.SourceMap.ExprAST(id)
		if !ok {
			return // синтетический узел
		}
		back, ok := body.SourceMap.ExprForAST(node)
		if !ok || back != id {
			t.Errorf("round trip failed for expr %d: got %d, %v", id, back, ok)
		}
		count++
	})
	if count == 0 {
		t.Fatal("no mapped expressions")
	}

	body.Pats.Each(func(raw uint32, _ *Pat) {
		id := PatID(raw)
		node, ok := body.SourceMap.PatAST(id)
		if !ok {
			return
		}
		back, ok := body.SourceMap.PatForAST(node)
		if !ok || back != id {
			t.Errorf("round trip failed for pat %d", id)
		}
	})
}

func TestLowerMacroExpansion(t *testing.T) {
	text := "-define(VALUE, 42).\nf() -> ?VALUE + 1.\n"
	body, _, atoms := lowerFirstFun(t, text)
	clause := body.Clause(body.TopClauses[0])
	add := body.Expr(clause.Exprs[0]).Data.(BinaryOpData)
	mc := body.Expr(add.Lhs)
	if mc.Kind != ExprMacroCall {
		t.Fatalf("lhs kind = %v", mc.Kind)
	}
	data := mc.Data.(MacroCallData)
	if atoms.MustLookup(data.Name) != "VALUE" {
		t.Errorf("macro name = %q", atoms.MustLookup(data.Name))
	}
	if !data.Expansion.IsValid() {
		t.Fatal("macro was not expanded")
	}
	exp := body.Expr(data.Expansion)
	if exp.Kind != ExprLiteral {
		t.Errorf("expansion kind = %v", exp.Kind)
	}
	// Синтетический узел: AST-указателя нет, span указывает на вызов.
	if _, ok := body.SourceMap.ExprAST(data.Expansion); ok {
		t.Error("expansion node must not map to an AST pointer")
	}
	span, ok := body.SourceMap.ExprSpan(data.Expansion)
	if !ok || span.Empty() {
		t.Errorf("expansion span = %v, %v", span, ok)
	}
	callSpan, _ := body.SourceMap.ExprSpan(add.Lhs)
	if span != callSpan {
		t.Errorf("expansion span %v differs from call site %v", span, callSpan)
	}
}

func TestDefMap(t *testing.T) {
	atoms := source.NewInterner()
	names := source.NewNameTable(atoms)
	file := parser.ParseFile(1, []byte(`-module(m).
-export([f/1]).
-record(r,{a,b}).
-define(M, 1).
-spec f(term()) -> term().
-type t() :: integer().
f(X) -> X.
g() -> ok.
`))
	dm := BuildDefMap(NewFormList(file), atoms, names)

	if !dm.ModuleSet || dm.Module != "m" {
		t.Errorf("module = %q, %v", dm.Module, dm.ModuleSet)
	}
	fID := names.Intern("f", 1)
	fDef := dm.Functions[fID]
	if fDef == nil || !fDef.Exported || !fDef.HasSpec {
		t.Errorf("f/1 def = %+v", fDef)
	}
	gID := names.Intern("g", 0)
	gDef := dm.Functions[gID]
	if gDef == nil || gDef.Exported || gDef.HasSpec {
		t.Errorf("g/0 def = %+v", gDef)
	}
	rec := dm.Records[atoms.Intern("r")]
	if rec == nil || len(rec.Fields) != 2 {
		t.Fatalf("record r = %+v", rec)
	}
	if dm.ResolveMacro("M", -1) == nil {
		t.Error("macro M not found")
	}
	if len(dm.Types) != 1 {
		t.Errorf("types = %d", len(dm.Types))
	}
}
