package lexer

import (
	"testing"

	"beamlint/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want []token.Kind) {
	t.Helper()
	toks, errs := Tokenize(1, []byte(input))
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors for %q: %v", input, errs)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token kinds for %q:\n got %v\nwant %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d for %q: got %v, want %v", i, input, got[i], want[i])
		}
	}
}

func TestTokenizeSimpleForm(t *testing.T) {
	expectKinds(t, "foo(2)->3.\n", []token.Kind{
		token.Atom, token.LParen, token.IntLit, token.RParen,
		token.Arrow, token.IntLit, token.FullStop, token.EOF,
	})
}

func TestTokenizeAttribute(t *testing.T) {
	expectKinds(t, "-module(main).", []token.Kind{
		token.OpMinus, token.Atom, token.LParen, token.Atom, token.RParen,
		token.FullStop, token.EOF,
	})
}

func TestTokenizeRecordAccessDot(t *testing.T) {
	// Точка внутри X#r.a — доступ к полю, последняя точка завершает форму.
	expectKinds(t, "X#r.a.", []token.Kind{
		token.Var, token.Hash, token.Atom, token.Dot, token.Atom,
		token.FullStop, token.EOF,
	})
}

func TestTokenizeOperators(t *testing.T) {
	expectKinds(t, "A =:= B =/= C == D /= E =< F >= G", []token.Kind{
		token.Var, token.OpExactEq, token.Var, token.OpExactNotEq,
		token.Var, token.OpEq, token.Var, token.OpNotEq, token.Var,
		token.OpLtEq, token.Var, token.OpGtEq, token.Var, token.EOF,
	})
	expectKinds(t, "<<X:4>> ++ [1|T]", []token.Kind{
		token.BinOpen, token.Var, token.Colon, token.IntLit, token.BinClose,
		token.OpPlusPlus, token.LBracket, token.IntLit, token.Pipe, token.Var,
		token.RBracket, token.EOF,
	})
}

func TestTokenizeKeywordsAndAtoms(t *testing.T) {
	expectKinds(t, "case x of end fun when", []token.Kind{
		token.KwCase, token.Atom, token.KwOf, token.KwEnd, token.KwFun,
		token.KwWhen, token.EOF,
	})
}

func TestTokenizeComment(t *testing.T) {
	toks, errs := Tokenize(1, []byte("x. % elp:ignore W0003\ny.\n"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var comments []token.Token
	for _, tok := range toks {
		if tok.Kind == token.Comment {
			comments = append(comments, tok)
		}
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].Text != "% elp:ignore W0003" {
		t.Errorf("comment text = %q", comments[0].Text)
	}
}

func TestTokenizeQuotedAtomAndString(t *testing.T) {
	toks, errs := Tokenize(1, []byte(`'hello world' "a \"b\"" $x $\n 16#FF 3.14`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Kind{
		token.Atom, token.StringLit, token.CharLit, token.CharLit,
		token.IntLit, token.FloatLit, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, errs := Tokenize(1, []byte(`"abc`))
	if len(errs) == 0 {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestTokenSpans(t *testing.T) {
	toks, _ := Tokenize(1, []byte("foo(X)"))
	if toks[0].Span.Start != 0 || toks[0].Span.End != 3 {
		t.Errorf("atom span = %v", toks[0].Span)
	}
	if toks[2].Span.Start != 4 || toks[2].Span.End != 5 {
		t.Errorf("var span = %v", toks[2].Span)
	}
}
