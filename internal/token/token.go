package token

import (
	"beamlint/internal/source"
)

// Token represents a single source token with its location.
// Text keeps the raw source slice so the tree stays lossless.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is an atom, numeric, string, or char literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Atom, IntLit, FloatLit, StringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwAfter, KwAndalso, KwBegin, KwCase, KwCatch, KwElse, KwEnd, KwFun,
		KwIf, KwMaybe, KwOf, KwOrelse, KwReceive, KwTry, KwWhen,
		OpDiv, OpRem, OpBand, OpBor, OpBxor, OpBsl, OpBsr, OpBnot,
		OpAnd, OpOr, OpXor, OpNot:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the token carries no syntax (comments).
func (t Token) IsTrivia() bool { return t.Kind == Comment }

var keywords = map[string]Kind{
	"after":   KwAfter,
	"andalso": KwAndalso,
	"begin":   KwBegin,
	"case":    KwCase,
	"catch":   KwCatch,
	"else":    KwElse,
	"end":     KwEnd,
	"fun":     KwFun,
	"if":      KwIf,
	"maybe":   KwMaybe,
	"of":      KwOf,
	"orelse":  KwOrelse,
	"receive": KwReceive,
	"try":     KwTry,
	"when":    KwWhen,
	"div":     OpDiv,
	"rem":     OpRem,
	"band":    OpBand,
	"bor":     OpBor,
	"bxor":    OpBxor,
	"bsl":     OpBsl,
	"bsr":     OpBsr,
	"bnot":    OpBnot,
	"and":     OpAnd,
	"or":      OpOr,
	"xor":     OpXor,
	"not":     OpNot,
}

// LookupKeyword maps an unquoted atom spelling to its keyword kind.
// Returns (Atom, false) when the spelling is a plain atom.
func LookupKeyword(text string) (Kind, bool) {
	if k, ok := keywords[text]; ok {
		return k, true
	}
	return Atom, false
}
