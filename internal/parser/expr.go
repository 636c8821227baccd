package parser

import (
	"beamlint/internal/ast"
	"beamlint/internal/source"
	"beamlint/internal/token"
)

// Грамматика выражений повторяет эрланговскую лесенку приоритетов:
// catch < match/send < orelse < andalso < сравнения < ++/-- < аддитивные <
// мультипликативные < унарные < постфиксы (вызов, запись, карта).

func (p *Parser) parseExpr() ast.Expr {
	if p.at(token.KwCatch) {
		start := p.bump().Span
		operand := p.parseExpr()
		return &ast.CatchExpr{Operand: operand, Rng: start.Cover(operand.Span())}
	}
	return p.parseMatchSend()
}

func (p *Parser) parseMatchSend() ast.Expr {
	lhs := p.parseOrelse()
	switch p.cur().Kind {
	case token.Match:
		p.bump()
		rhs := p.parseMatchSend()
		return &ast.MatchExpr{Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	case token.MaybeMatch:
		p.bump()
		rhs := p.parseMatchSend()
		return &ast.MaybeCond{Pat: lhs, Operand: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	case token.OpSend:
		p.bump()
		rhs := p.parseMatchSend()
		return &ast.BinaryOp{Op: "!", Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	default:
		return lhs
	}
}

func (p *Parser) parseOrelse() ast.Expr {
	lhs := p.parseAndalso()
	if p.at(token.KwOrelse) {
		p.bump()
		rhs := p.parseOrelse()
		return &ast.BinaryOp{Op: "orelse", Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	}
	return lhs
}

func (p *Parser) parseAndalso() ast.Expr {
	lhs := p.parseComparison()
	if p.at(token.KwAndalso) {
		p.bump()
		rhs := p.parseAndalso()
		return &ast.BinaryOp{Op: "andalso", Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	}
	return lhs
}

func (p *Parser) parseComparison() ast.Expr {
	lhs := p.parseListOps()
	for {
		var op string
		switch p.cur().Kind {
		case token.OpEq:
			op = "=="
		case token.OpNotEq:
			op = "/="
		case token.OpLtEq:
			op = "=<"
		case token.OpLt:
			op = "<"
		case token.OpGtEq:
			op = ">="
		case token.OpGt:
			op = ">"
		case token.OpExactEq:
			op = "=:="
		case token.OpExactNotEq:
			op = "=/="
		default:
			return lhs
		}
		p.bump()
		rhs := p.parseListOps()
		lhs = &ast.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	}
}

func (p *Parser) parseListOps() ast.Expr {
	lhs := p.parseAdditive()
	switch p.cur().Kind {
	case token.OpPlusPlus:
		p.bump()
		rhs := p.parseListOps()
		return &ast.BinaryOp{Op: "++", Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	case token.OpMinusMinus:
		p.bump()
		rhs := p.parseListOps()
		return &ast.BinaryOp{Op: "--", Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	default:
		return lhs
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	lhs := p.parseMultiplicative()
	for {
		var op string
		switch p.cur().Kind {
		case token.OpPlus:
			op = "+"
		case token.OpMinus:
			op = "-"
		case token.OpBor:
			op = "bor"
		case token.OpBxor:
			op = "bxor"
		case token.OpBsl:
			op = "bsl"
		case token.OpBsr:
			op = "bsr"
		case token.OpOr:
			op = "or"
		case token.OpXor:
			op = "xor"
		default:
			return lhs
		}
		p.bump()
		rhs := p.parseMultiplicative()
		lhs = &ast.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	lhs := p.parseUnary()
	for {
		var op string
		switch p.cur().Kind {
		case token.OpStar:
			op = "*"
		case token.OpSlash:
			op = "/"
		case token.OpDiv:
			op = "div"
		case token.OpRem:
			op = "rem"
		case token.OpBand:
			op = "band"
		case token.OpAnd:
			op = "and"
		default:
			return lhs
		}
		p.bump()
		rhs := p.parseUnary()
		lhs = &ast.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs, Rng: lhs.Span().Cover(rhs.Span())}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	var op string
	switch p.cur().Kind {
	case token.OpPlus:
		op = "+"
	case token.OpMinus:
		op = "-"
	case token.OpBnot:
		op = "bnot"
	case token.OpNot:
		op = "not"
	default:
		return p.parsePostfix()
	}
	start := p.bump().Span
	operand := p.parseUnary()
	return &ast.UnaryOp{Op: op, Operand: operand, Rng: start.Cover(operand.Span())}
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			p.bump()
			args := p.parseExprListUntil(token.RParen)
			closing := p.expect(token.RParen)
			e = &ast.Call{Fun: e, Args: args, Rng: e.Span().Cover(closing.Span)}
		case token.Colon:
			p.bump()
			fun := p.parsePrimary()
			if p.at(token.LParen) {
				p.bump()
				args := p.parseExprListUntil(token.RParen)
				closing := p.expect(token.RParen)
				e = &ast.Call{Module: e, Fun: fun, Args: args, Rng: e.Span().Cover(closing.Span)}
			} else {
				e = &ast.BinaryOp{Op: ":", Lhs: e, Rhs: fun, Rng: e.Span().Cover(fun.Span())}
			}
		case token.Hash:
			e = p.parseHashPostfix(e)
		default:
			return e
		}
	}
}

// parseHashPostfix разбирает обновление записи, доступ к полю и обновление карты.
func (p *Parser) parseHashPostfix(operand ast.Expr) ast.Expr {
	p.bump() // '#'
	if p.at(token.LBrace) {
		fields, closing := p.parseMapFields()
		return &ast.MapUpdate{Operand: operand, Fields: fields, Rng: operand.Span().Cover(closing)}
	}
	nameTok := p.bump() // имя записи: atom или ?MACRO
	name := ast.Name{Text: atomText(nameTok), Rng: nameTok.Span}
	if nameTok.Kind == token.Question {
		macroTok := p.bump()
		name = ast.Name{Text: macroTok.Text, Rng: nameTok.Span.Cover(macroTok.Span)}
	}
	switch p.cur().Kind {
	case token.LBrace:
		fields, closing := p.parseRecordExprFields()
		return &ast.RecordUpdate{Operand: operand, Name: name, Fields: fields, Rng: operand.Span().Cover(closing)}
	case token.Dot:
		p.bump()
		fieldTok := p.expect(token.Atom)
		return &ast.RecordAccess{
			Operand: operand,
			Name:    name,
			Field:   ast.Name{Text: atomText(fieldTok), Rng: fieldTok.Span},
			Rng:     operand.Span().Cover(fieldTok.Span),
		}
	default:
		p.errorf(p.cur().Span, "expected '{' or '.' after record name")
		return operand
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.Atom:
		p.bump()
		return &ast.AtomLit{Value: atomText(tok), Rng: tok.Span}
	case token.Var:
		p.bump()
		return &ast.VarRef{Name: tok.Text, Rng: tok.Span}
	case token.IntLit:
		p.bump()
		return &ast.IntLit{Text: tok.Text, Rng: tok.Span}
	case token.FloatLit:
		p.bump()
		return &ast.FloatLit{Text: tok.Text, Rng: tok.Span}
	case token.StringLit:
		// соседние строковые литералы конкатенируются
		p.bump()
		span := tok.Span
		text := tok.Text
		for p.at(token.StringLit) {
			next := p.bump()
			span = span.Cover(next.Span)
			text += next.Text
		}
		return &ast.StringLit{Text: text, Rng: span}
	case token.CharLit:
		p.bump()
		return &ast.CharLit{Text: tok.Text, Rng: tok.Span}
	case token.LParen:
		p.bump()
		inner := p.parseExpr()
		closing := p.expect(token.RParen)
		return &ast.ParenExpr{Inner: inner, Rng: tok.Span.Cover(closing.Span)}
	case token.LBrace:
		p.bump()
		elems := p.parseExprListUntil(token.RBrace)
		closing := p.expect(token.RBrace)
		return &ast.Tuple{Elems: elems, Rng: tok.Span.Cover(closing.Span)}
	case token.LBracket:
		return p.parseListOrComprehension()
	case token.BinOpen:
		return p.parseBinaryOrComprehension()
	case token.Hash:
		return p.parseHashPrimary()
	case token.Question:
		return p.parseMacroCall()
	case token.KwBegin:
		p.bump()
		body := p.parseBody()
		closing := p.expect(token.KwEnd)
		return &ast.Block{Body: body, Rng: tok.Span.Cover(closing.Span)}
	case token.KwIf:
		return p.parseIf()
	case token.KwCase:
		return p.parseCase()
	case token.KwReceive:
		return p.parseReceive()
	case token.KwTry:
		return p.parseTry()
	case token.KwFun:
		return p.parseFun()
	case token.KwMaybe:
		return p.parseMaybe()
	case token.KwCatch:
		// catch в позиции аргумента
		p.bump()
		operand := p.parseExpr()
		return &ast.CatchExpr{Operand: operand, Rng: tok.Span.Cover(operand.Span())}
	default:
		p.errorf(tok.Span, "expected an expression, found %s", tok.Kind)
		p.bump()
		return &ast.Missing{Rng: tok.Span.ZeroideToStart()}
	}
}

func (p *Parser) parseListOrComprehension() ast.Expr {
	open := p.bump() // '['
	if p.at(token.RBracket) {
		closing := p.bump()
		return &ast.ListExpr{Rng: open.Span.Cover(closing.Span)}
	}
	first := p.parseExpr()
	if p.at(token.DoublePipe) {
		p.bump()
		quals := p.parseCompQuals()
		closing := p.expect(token.RBracket)
		return &ast.Comprehension{
			Kind:    ast.CompList,
			Builder: first,
			Quals:   quals,
			Rng:     open.Span.Cover(closing.Span),
		}
	}
	elems := []ast.Expr{first}
	var tail ast.Expr
	for {
		if _, ok := p.accept(token.Comma); ok {
			elems = append(elems, p.parseExpr())
			continue
		}
		if _, ok := p.accept(token.Pipe); ok {
			tail = p.parseExpr()
		}
		break
	}
	closing := p.expect(token.RBracket)
	return &ast.ListExpr{Elems: elems, Tail: tail, Rng: open.Span.Cover(closing.Span)}
}

func (p *Parser) parseBinaryOrComprehension() ast.Expr {
	open := p.bump() // '<<'
	if p.at(token.BinClose) {
		closing := p.bump()
		return &ast.Binary{Rng: open.Span.Cover(closing.Span)}
	}
	first := p.parseExpr()
	if p.at(token.DoublePipe) {
		p.bump()
		quals := p.parseCompQuals()
		closing := p.expect(token.BinClose)
		return &ast.Comprehension{
			Kind:    ast.CompBinary,
			Builder: first,
			Quals:   quals,
			Rng:     open.Span.Cover(closing.Span),
		}
	}
	segs := []ast.BinSeg{makeBinSeg(first)}
	for {
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		segs = append(segs, makeBinSeg(p.parseExpr()))
	}
	closing := p.expect(token.BinClose)
	return &ast.Binary{Segs: segs, Rng: open.Span.Cover(closing.Span)}
}

// makeBinSeg раскладывает выражение сегмента на элемент и размер.
// Спецификаторы типа (/integer-unit:8) для линтов не важны и отбрасываются.
func makeBinSeg(e ast.Expr) ast.BinSeg {
	seg := ast.BinSeg{Elem: e, Rng: e.Span()}
	if bin, ok := e.(*ast.BinaryOp); ok && bin.Op == "/" {
		e = bin.Lhs
		seg.Elem = e
	}
	if bin, ok := e.(*ast.BinaryOp); ok && bin.Op == ":" {
		seg.Elem = bin.Lhs
		seg.Size = bin.Rhs
	}
	return seg
}

func (p *Parser) parseCompQuals() []ast.CompQual {
	var out []ast.CompQual
	for {
		q := p.parseCompQual()
		out = append(out, q)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	return out
}

func (p *Parser) parseCompQual() ast.CompQual {
	first := p.parseExpr()
	switch p.cur().Kind {
	case token.LArrow:
		p.bump()
		operand := p.parseExpr()
		return ast.CompQual{Kind: ast.GenList, Pat: first, Operand: operand, Rng: first.Span().Cover(operand.Span())}
	case token.DoubleLArrow:
		p.bump()
		operand := p.parseExpr()
		return ast.CompQual{Kind: ast.GenBinary, Pat: first, Operand: operand, Rng: first.Span().Cover(operand.Span())}
	case token.MapExact:
		p.bump()
		valPat := p.parseExpr()
		p.expect(token.LArrow)
		operand := p.parseExpr()
		return ast.CompQual{Kind: ast.GenMap, Pat: first, ValPat: valPat, Operand: operand, Rng: first.Span().Cover(operand.Span())}
	default:
		return ast.CompQual{Filter: true, Operand: first, Rng: first.Span()}
	}
}

func (p *Parser) parseHashPrimary() ast.Expr {
	hash := p.bump() // '#'
	if p.at(token.LBrace) {
		// map-конструктор или map comprehension
		p.bump()
		if p.at(token.RBrace) {
			closing := p.bump()
			return &ast.MapExpr{Rng: hash.Span.Cover(closing.Span)}
		}
		firstKey := p.parseExpr()
		if p.at(token.MapAssoc) {
			p.bump()
			firstVal := p.parseExpr()
			if p.at(token.DoublePipe) {
				p.bump()
				quals := p.parseCompQuals()
				closing := p.expect(token.RBrace)
				return &ast.Comprehension{
					Kind:    ast.CompMap,
					Builder: firstKey,
					ValueEl: firstVal,
					Quals:   quals,
					Rng:     hash.Span.Cover(closing.Span),
				}
			}
			fields := []ast.MapField{{
				Key:   firstKey,
				Value: firstVal,
				Rng:   firstKey.Span().Cover(firstVal.Span()),
			}}
			fields = p.parseMoreMapFields(fields)
			closing := p.expect(token.RBrace)
			return &ast.MapExpr{Fields: fields, Rng: hash.Span.Cover(closing.Span)}
		}
		if p.at(token.MapExact) {
			p.bump()
			firstVal := p.parseExpr()
			fields := []ast.MapField{{
				Key:   firstKey,
				Exact: true,
				Value: firstVal,
				Rng:   firstKey.Span().Cover(firstVal.Span()),
			}}
			fields = p.parseMoreMapFields(fields)
			closing := p.expect(token.RBrace)
			return &ast.MapExpr{Fields: fields, Rng: hash.Span.Cover(closing.Span)}
		}
		p.errorf(p.cur().Span, "expected '=>' or ':=' in map")
		closing := p.expect(token.RBrace)
		return &ast.MapExpr{Rng: hash.Span.Cover(closing.Span)}
	}

	nameTok := p.bump()
	name := ast.Name{Text: atomText(nameTok), Rng: nameTok.Span}
	if nameTok.Kind == token.Question {
		macroTok := p.bump()
		name = ast.Name{Text: macroTok.Text, Rng: nameTok.Span.Cover(macroTok.Span)}
	}
	switch p.cur().Kind {
	case token.LBrace:
		fields, closing := p.parseRecordExprFields()
		return &ast.RecordExpr{Name: name, Fields: fields, Rng: hash.Span.Cover(closing)}
	case token.Dot:
		p.bump()
		fieldTok := p.expect(token.Atom)
		return &ast.RecordIndex{
			Name:  name,
			Field: ast.Name{Text: atomText(fieldTok), Rng: fieldTok.Span},
			Rng:   hash.Span.Cover(fieldTok.Span),
		}
	default:
		p.errorf(p.cur().Span, "expected '{' or '.' after record name")
		return &ast.Missing{Rng: hash.Span}
	}
}

func (p *Parser) parseMoreMapFields(fields []ast.MapField) []ast.MapField {
	for {
		if _, ok := p.accept(token.Comma); !ok {
			return fields
		}
		key := p.parseExpr()
		exact := false
		switch p.cur().Kind {
		case token.MapAssoc:
			p.bump()
		case token.MapExact:
			exact = true
			p.bump()
		default:
			p.errorf(p.cur().Span, "expected '=>' or ':=' in map")
		}
		val := p.parseExpr()
		fields = append(fields, ast.MapField{
			Key:   key,
			Exact: exact,
			Value: val,
			Rng:   key.Span().Cover(val.Span()),
		})
	}
}

// parseMapFields разбирает поля после '#' когда следом идёт '{' (map update).
func (p *Parser) parseMapFields() ([]ast.MapField, source.Span) {
	p.bump() // '{'
	var fields []ast.MapField
	if p.at(token.RBrace) {
		closing := p.bump()
		return fields, closing.Span
	}
	for {
		key := p.parseExpr()
		exact := false
		switch p.cur().Kind {
		case token.MapAssoc:
			p.bump()
		case token.MapExact:
			exact = true
			p.bump()
		default:
			p.errorf(p.cur().Span, "expected '=>' or ':=' in map")
		}
		val := p.parseExpr()
		fields = append(fields, ast.MapField{
			Key:   key,
			Exact: exact,
			Value: val,
			Rng:   key.Span().Cover(val.Span()),
		})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	closing := p.expect(token.RBrace)
	return fields, closing.Span
}

func (p *Parser) parseRecordExprFields() ([]ast.RecordExprField, source.Span) {
	p.expect(token.LBrace)
	var fields []ast.RecordExprField
	for p.at(token.Atom) || p.at(token.Var) {
		fieldTok := p.bump() // atom или '_' для generic-обновлений
		field := ast.RecordExprField{
			Field: ast.Name{Text: atomText(fieldTok), Rng: fieldTok.Span},
		}
		p.expect(token.Match)
		field.Value = p.parseExpr()
		field.Rng = fieldTok.Span.Cover(field.Value.Span())
		fields = append(fields, field)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	closing := p.expect(token.RBrace)
	return fields, closing.Span
}

func (p *Parser) parseMacroCall() ast.Expr {
	q := p.bump() // '?'
	nameTok := p.bump()
	mc := &ast.MacroCall{Name: nameTok.Text, Rng: q.Span.Cover(nameTok.Span)}
	if p.at(token.LParen) {
		p.bump()
		mc.Args = p.parseExprListUntil(token.RParen)
		closing := p.expect(token.RParen)
		mc.HasArgs = true
		mc.Rng = q.Span.Cover(closing.Span)
	}
	return mc
}

func (p *Parser) parseIf() ast.Expr {
	open := p.bump() // 'if'
	var clauses []ast.IfClause
	for {
		start := p.cur().Span
		guards := p.parseGuards()
		p.expect(token.Arrow)
		body := p.parseBody()
		clauses = append(clauses, ast.IfClause{Guards: guards, Body: body, Rng: p.spanFrom(start)})
		if _, ok := p.accept(token.Semicolon); !ok {
			break
		}
	}
	closing := p.expect(token.KwEnd)
	return &ast.IfExpr{Clauses: clauses, Rng: open.Span.Cover(closing.Span)}
}

func (p *Parser) parseCRClauses() []ast.CRClause {
	var clauses []ast.CRClause
	for {
		start := p.cur().Span
		pat := p.parseExpr()
		var guards [][]ast.Expr
		if _, ok := p.accept(token.KwWhen); ok {
			guards = p.parseGuards()
		}
		p.expect(token.Arrow)
		body := p.parseBody()
		clauses = append(clauses, ast.CRClause{Pat: pat, Guards: guards, Body: body, Rng: p.spanFrom(start)})
		if _, ok := p.accept(token.Semicolon); !ok {
			break
		}
	}
	return clauses
}

func (p *Parser) parseCase() ast.Expr {
	open := p.bump() // 'case'
	scrutinee := p.parseExpr()
	p.expect(token.KwOf)
	clauses := p.parseCRClauses()
	closing := p.expect(token.KwEnd)
	return &ast.CaseExpr{Scrutinee: scrutinee, Clauses: clauses, Rng: open.Span.Cover(closing.Span)}
}

func (p *Parser) parseReceive() ast.Expr {
	open := p.bump() // 'receive'
	recv := &ast.ReceiveExpr{}
	if !p.at(token.KwAfter) && !p.at(token.KwEnd) {
		recv.Clauses = p.parseCRClauses()
	}
	if afterTok, ok := p.accept(token.KwAfter); ok {
		timeout := p.parseExpr()
		p.expect(token.Arrow)
		body := p.parseBody()
		recv.After = &ast.ReceiveAfter{
			Timeout: timeout,
			Body:    body,
			Rng:     afterTok.Span.Cover(p.spanFrom(afterTok.Span)),
		}
	}
	closing := p.expect(token.KwEnd)
	recv.Rng = open.Span.Cover(closing.Span)
	return recv
}

func (p *Parser) parseTry() ast.Expr {
	open := p.bump() // 'try'
	tryExpr := &ast.TryExpr{}
	tryExpr.Body = p.parseBody()
	if _, ok := p.accept(token.KwOf); ok {
		tryExpr.OfClauses = p.parseCRClauses()
	}
	if _, ok := p.accept(token.KwCatch); ok {
		tryExpr.CatchClauses = p.parseTryCatchClauses()
	}
	if _, ok := p.accept(token.KwAfter); ok {
		tryExpr.After = p.parseBody()
	}
	closing := p.expect(token.KwEnd)
	tryExpr.Rng = open.Span.Cover(closing.Span)
	return tryExpr
}

func (p *Parser) parseTryCatchClauses() []ast.TryCatchClause {
	var clauses []ast.TryCatchClause
	for {
		start := p.cur().Span
		pat := p.parseExpr()
		clause := ast.TryCatchClause{}
		clause.Class, clause.Reason, clause.Stack = splitCatchPattern(pat)
		if _, ok := p.accept(token.KwWhen); ok {
			clause.Guards = p.parseGuards()
		}
		p.expect(token.Arrow)
		clause.Body = p.parseBody()
		clause.Rng = p.spanFrom(start)
		clauses = append(clauses, clause)
		if _, ok := p.accept(token.Semicolon); !ok {
			break
		}
	}
	return clauses
}

// splitCatchPattern раскладывает образец catch-клаузы Class:Reason:Stack.
// Парсер собирает двоеточия в цепочку BinaryOp ":", здесь она расплетается.
func splitCatchPattern(pat ast.Expr) (class, reason, stack ast.Expr) {
	bin, ok := pat.(*ast.BinaryOp)
	if !ok || bin.Op != ":" {
		return nil, pat, nil
	}
	if inner, ok := bin.Lhs.(*ast.BinaryOp); ok && inner.Op == ":" {
		return inner.Lhs, inner.Rhs, bin.Rhs
	}
	return bin.Lhs, bin.Rhs, nil
}

func (p *Parser) parseFun() ast.Expr {
	open := p.bump() // 'fun'

	// fun m:f/1, fun f/1 — капчуры
	if (p.at(token.Atom) || p.at(token.Var) || p.at(token.Question)) && !p.funHeaderAhead() {
		target := p.parseMultiplicative()
		capture := &ast.CaptureFun{Rng: open.Span.Cover(target.Span())}
		// target: BinaryOp "/" {f, arity} или BinaryOp "/" {BinaryOp ":" {m, f}, arity}
		if bin, ok := target.(*ast.BinaryOp); ok && bin.Op == "/" {
			capture.Arity = bin.Rhs
			if remote, ok := bin.Lhs.(*ast.BinaryOp); ok && remote.Op == ":" {
				capture.Module = remote.Lhs
				capture.Fun = remote.Rhs
			} else {
				capture.Fun = bin.Lhs
			}
		} else {
			p.errorf(target.Span(), "expected name/arity after 'fun'")
			capture.Fun = target
		}
		return capture
	}

	// fun (..) -> .. end или fun Name(..) -> .. end
	fn := &ast.FunExpr{}
	for {
		clause := ast.FunClauseExpr{}
		start := p.cur().Span
		if p.at(token.Var) {
			nameTok := p.bump()
			clause.Name = nameTok.Text
		}
		p.expect(token.LParen)
		clause.Params = p.parseExprListUntil(token.RParen)
		p.expect(token.RParen)
		if _, ok := p.accept(token.KwWhen); ok {
			clause.Guards = p.parseGuards()
		}
		p.expect(token.Arrow)
		clause.Body = p.parseBody()
		clause.Rng = p.spanFrom(start)
		fn.Clauses = append(fn.Clauses, clause)
		if _, ok := p.accept(token.Semicolon); !ok {
			break
		}
	}
	closing := p.expect(token.KwEnd)
	fn.Rng = open.Span.Cover(closing.Span)
	return fn
}

// funHeaderAhead различает 'fun Name(' (замыкание) и 'fun f/1' (капчура).
func (p *Parser) funHeaderAhead() bool {
	return p.at(token.Var) && p.peek().Kind == token.LParen
}

func (p *Parser) parseMaybe() ast.Expr {
	open := p.bump() // 'maybe'
	m := &ast.MaybeExpr{}
	m.Body = p.parseBody()
	if _, ok := p.accept(token.KwElse); ok {
		m.ElseClauses = p.parseCRClauses()
	}
	closing := p.expect(token.KwEnd)
	m.Rng = open.Span.Cover(closing.Span)
	return m
}

// ---------------------------------------------------------------------
// Type expressions

// parseTypeExpr проматывает тип как сбалансированный диапазон токенов.
// Линты содержимое типов не анализируют, важен только диапазон.
func (p *Parser) parseTypeExpr() ast.Expr {
	start := p.cur().Span
	depth := 0
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LParen, token.LBrace, token.LBracket, token.BinOpen:
			depth++
		case token.RParen, token.RBrace, token.RBracket, token.BinClose:
			if depth == 0 {
				return &ast.Missing{Rng: p.spanFrom(start)}
			}
			depth--
		case token.Comma:
			if depth == 0 {
				return &ast.Missing{Rng: p.spanFrom(start)}
			}
		case token.FullStop:
			return &ast.Missing{Rng: p.spanFrom(start)}
		}
		p.bump()
	}
	return &ast.Missing{Rng: p.spanFrom(start)}
}
