package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"beamlint/internal/ast"
	"beamlint/internal/lexer"
	"beamlint/internal/source"
	"beamlint/internal/token"
)

// maxParseErrors bounds error accumulation for pathological inputs.
const maxParseErrors = 512

// Parser consumes a token stream and produces a typed form list.
type Parser struct {
	file source.FileID
	toks []token.Token // без trivia
	pos  int
	errs []ast.ParseError
}

// ParseFile lexes and parses normalized content into a file of forms.
// Парсер никогда не возвращает ошибку: все проблемы копятся в File.Errors.
func ParseFile(file source.FileID, content []byte) *ast.File {
	raw, lexErrs := lexer.Tokenize(file, content)
	toks := make([]token.Token, 0, len(raw))
	for _, t := range raw {
		if t.IsTrivia() {
			continue
		}
		toks = append(toks, t)
	}

	p := &Parser{file: file, toks: toks}
	for _, le := range lexErrs {
		p.errs = append(p.errs, ast.ParseError{Range: le.Span, Msg: le.Msg})
	}

	out := &ast.File{FileID: file}
	for !p.at(token.EOF) {
		form := p.parseForm()
		if form != nil {
			out.Forms = append(out.Forms, form)
		}
	}
	out.Errors = p.errs
	return out
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peek() token.Token { return p.nth(1) }

func (p *Parser) nth(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) bump() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.bump()
	}
	p.errorf(p.cur().Span, "expected %s, found %s", k, p.cur().Kind)
	return token.Token{Kind: k, Span: p.cur().Span.ZeroideToStart()}
}

func (p *Parser) errorf(span source.Span, format string, args ...any) {
	if len(p.errs) >= maxParseErrors {
		return
	}
	p.errs = append(p.errs, ast.ParseError{Range: span, Msg: fmt.Sprintf(format, args...)})
}

// syncToFullStop пропускает токены до конца формы (включая точку).
func (p *Parser) syncToFullStop() {
	for !p.at(token.EOF) {
		if p.bump().Kind == token.FullStop {
			return
		}
	}
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.pos == 0 {
		return start
	}
	return start.Cover(p.toks[p.pos-1].Span)
}

// ---------------------------------------------------------------------
// Forms

func (p *Parser) parseForm() ast.Form {
	switch {
	case p.at(token.OpMinus) && p.peek().Kind == token.Atom:
		return p.parseAttribute()
	case p.at(token.OpMinus) && p.peek().Kind == token.KwIf:
		return p.parseDirectiveForm("if")
	case p.at(token.OpMinus) && p.peek().Kind == token.KwElse:
		return p.parseDirectiveForm("else")
	case p.at(token.Atom):
		return p.parseFunDecl()
	default:
		tok := p.cur()
		p.errorf(tok.Span, "expected a form, found %s", tok.Kind)
		p.syncToFullStop()
		return nil
	}
}

func (p *Parser) parseAttribute() ast.Form {
	start := p.cur().Span
	p.bump() // '-'
	nameTok := p.bump()

	switch nameTok.Text {
	case "module":
		return p.parseModuleAttr(start)
	case "export":
		return p.parseExportAttr(start, false)
	case "export_type":
		return p.parseExportAttr(start, true)
	case "import":
		return p.parseImportAttr(start)
	case "record":
		return p.parseRecordDecl(start)
	case "define":
		return p.parseDefineDecl(start)
	case "include":
		return p.parseIncludeAttr(start, false)
	case "include_lib":
		return p.parseIncludeAttr(start, true)
	case "type":
		return p.parseTypeAlias(start, false)
	case "opaque":
		return p.parseTypeAlias(start, true)
	case "spec":
		return p.parseSpecAttr(start)
	case "file":
		p.syncToFullStop()
		return &ast.FileAttr{Rng: p.spanFrom(start)}
	case "ifdef", "ifndef", "else", "endif", "elif", "undef":
		return p.parseDirectiveRest(start, nameTok.Text)
	case "compile":
		return p.parseCompileAttr(start)
	default:
		p.syncToFullStop()
		return &ast.WildAttr{
			Name: ast.Name{Text: nameTok.Text, Rng: nameTok.Span},
			Rng:  p.spanFrom(start),
		}
	}
}

func (p *Parser) parseDirectiveForm(kind string) ast.Form {
	start := p.cur().Span
	p.bump() // '-'
	p.bump() // ключевое слово 'if' либо 'else'
	return p.parseDirectiveRest(start, kind)
}

func (p *Parser) parseDirectiveRest(start source.Span, kind string) ast.Form {
	p.syncToFullStop()
	return &ast.PPDirective{Kind: kind, Rng: p.spanFrom(start)}
}

func (p *Parser) parseModuleAttr(start source.Span) ast.Form {
	p.expect(token.LParen)
	nameTok := p.expect(token.Atom)
	p.expect(token.RParen)
	p.expect(token.FullStop)
	return &ast.ModuleAttr{
		Name: ast.Name{Text: atomText(nameTok), Rng: nameTok.Span},
		Rng:  p.spanFrom(start),
	}
}

func (p *Parser) parseExportAttr(start source.Span, types bool) ast.Form {
	p.expect(token.LParen)
	entries, seps := p.parseNameArityList()
	p.expect(token.RParen)
	p.expect(token.FullStop)
	return &ast.ExportAttr{
		Types:   types,
		Entries: entries,
		Seps:    seps,
		Rng:     p.spanFrom(start),
	}
}

func (p *Parser) parseImportAttr(start source.Span) ast.Form {
	p.expect(token.LParen)
	modTok := p.expect(token.Atom)
	p.expect(token.Comma)
	entries, seps := p.parseNameArityList()
	p.expect(token.RParen)
	p.expect(token.FullStop)
	return &ast.ImportAttr{
		Module:  ast.Name{Text: atomText(modTok), Rng: modTok.Span},
		Entries: entries,
		Seps:    seps,
		Rng:     p.spanFrom(start),
	}
}

// parseNameArityList parses [foo/0, bar/1]. Пропущенные запятые не ломают
// разбор: фиксируем SepInfo и продолжаем со следующего элемента.
func (p *Parser) parseNameArityList() ([]ast.NameArity, []ast.SepInfo) {
	p.expect(token.LBracket)
	var entries []ast.NameArity
	var seps []ast.SepInfo
	for p.at(token.Atom) {
		entry, ok := p.parseNameArity()
		if !ok {
			break
		}
		entries = append(entries, entry)
		if _, ok := p.accept(token.Comma); ok {
			seps = append(seps, ast.SepInfo{Present: true, PrevSpan: entry.Rng})
			continue
		}
		if p.at(token.Atom) {
			// следующий элемент без разделителя
			seps = append(seps, ast.SepInfo{Present: false, PrevSpan: entry.Rng})
			continue
		}
		break
	}
	p.accept(token.RBracket)
	return entries, seps
}

func (p *Parser) parseNameArity() (ast.NameArity, bool) {
	nameTok := p.bump()
	span := nameTok.Span
	if _, ok := p.accept(token.OpSlash); !ok {
		p.errorf(p.cur().Span, "expected '/' in name/arity")
		return ast.NameArity{Name: atomText(nameTok), Rng: span}, true
	}
	arityTok := p.expect(token.IntLit)
	arity := parseArity(arityTok.Text)
	return ast.NameArity{
		Name:  atomText(nameTok),
		Arity: arity,
		Rng:   span.Cover(arityTok.Span),
	}, true
}

func (p *Parser) parseRecordDecl(start source.Span) ast.Form {
	p.expect(token.LParen)

	decl := &ast.RecordDecl{}
	switch {
	case p.at(token.Question):
		// -record(?NAME, {...}): имя приходит из макроса, имя не проверяем
		p.bump()
		nameTok := p.bump()
		decl.Name = ast.Name{Text: nameTok.Text, Rng: nameTok.Span}
		decl.MacroUse = true
	default:
		nameTok := p.expect(token.Atom)
		decl.Name = ast.Name{Text: atomText(nameTok), Rng: nameTok.Span}
	}

	if _, ok := p.accept(token.Comma); ok {
		decl.NameSep = ast.SepInfo{Present: true, PrevSpan: decl.Name.Rng}
	} else {
		decl.NameSep = ast.SepInfo{Present: false, PrevSpan: decl.Name.Rng}
	}

	p.expect(token.LBrace)
	for p.at(token.Atom) {
		field := p.parseRecordField()
		decl.Fields = append(decl.Fields, field)
		if _, ok := p.accept(token.Comma); ok {
			decl.Seps = append(decl.Seps, ast.SepInfo{Present: true, PrevSpan: field.Name.Rng})
			continue
		}
		if p.at(token.Atom) {
			decl.Seps = append(decl.Seps, ast.SepInfo{Present: false, PrevSpan: field.Name.Rng})
			continue
		}
		break
	}
	p.accept(token.RBrace)
	p.expect(token.RParen)
	p.expect(token.FullStop)
	decl.Rng = p.spanFrom(start)
	return decl
}

func (p *Parser) parseRecordField() ast.RecordField {
	nameTok := p.bump()
	field := ast.RecordField{Name: ast.Name{Text: atomText(nameTok), Rng: nameTok.Span}}
	if _, ok := p.accept(token.Match); ok {
		field.Default = p.parseExpr()
	}
	if _, ok := p.accept(token.DoubleColon); ok {
		field.Type = p.parseTypeExpr()
	}
	return field
}

func (p *Parser) parseDefineDecl(start source.Span) ast.Form {
	p.expect(token.LParen)
	nameTok := p.bump() // Atom или Var
	decl := &ast.DefineDecl{
		Name: ast.Name{Text: atomText(nameTok), Rng: nameTok.Span},
	}
	if p.at(token.LParen) {
		p.bump()
		for p.at(token.Var) {
			paramTok := p.bump()
			decl.Params = append(decl.Params, ast.Name{Text: paramTok.Text, Rng: paramTok.Span})
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.accept(token.RParen)
		if decl.Params == nil {
			decl.Params = []ast.Name{}
		}
	}
	if _, ok := p.accept(token.Comma); ok {
		// Замена разбирается как выражение, если она на него похожа.
		// Не всякий макрос — выражение; при неудаче тело остаётся nil.
		save := p.pos
		saveErrs := len(p.errs)
		repl := p.parseExpr()
		if p.at(token.RParen) && len(p.errs) == saveErrs {
			decl.Replacement = repl
		} else {
			p.pos = save
			p.errs = p.errs[:saveErrs]
			p.skipBalancedUntilRParen()
		}
	}
	p.accept(token.RParen)
	p.expect(token.FullStop)
	decl.Rng = p.spanFrom(start)
	return decl
}

// skipBalancedUntilRParen проматывает токены до закрывающей скобки уровня
// аргументов define, учитывая вложенные скобки всех видов.
func (p *Parser) skipBalancedUntilRParen() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LParen, token.LBrace, token.LBracket, token.BinOpen:
			depth++
		case token.RParen:
			if depth == 0 {
				return
			}
			depth--
		case token.RBrace, token.RBracket, token.BinClose:
			depth--
		case token.FullStop:
			return
		}
		p.bump()
	}
}

func (p *Parser) parseIncludeAttr(start source.Span, lib bool) ast.Form {
	p.expect(token.LParen)
	pathTok := p.expect(token.StringLit)
	p.expect(token.RParen)
	p.expect(token.FullStop)
	return &ast.IncludeAttr{
		Lib:  lib,
		Path: stringText(pathTok),
		Rng:  p.spanFrom(start),
	}
}

func (p *Parser) parseTypeAlias(start source.Span, opaque bool) ast.Form {
	nameTok := p.expect(token.Atom)
	alias := &ast.TypeAlias{
		Opaque: opaque,
		Name:   ast.Name{Text: atomText(nameTok), Rng: nameTok.Span},
	}
	if _, ok := p.accept(token.LParen); ok {
		for p.at(token.Var) {
			paramTok := p.bump()
			param := ast.Name{Text: paramTok.Text, Rng: paramTok.Span}
			alias.Params = append(alias.Params, param)
			if _, ok := p.accept(token.Comma); ok {
				alias.Seps = append(alias.Seps, ast.SepInfo{Present: true, PrevSpan: param.Rng})
				continue
			}
			if p.at(token.Var) {
				alias.Seps = append(alias.Seps, ast.SepInfo{Present: false, PrevSpan: param.Rng})
				continue
			}
			break
		}
		p.accept(token.RParen)
	}
	p.expect(token.DoubleColon)
	alias.Def = p.parseTypeExpr()
	p.expect(token.FullStop)
	alias.Rng = p.spanFrom(start)
	return alias
}

// parseSpecAttr разбирает -spec достаточно, чтобы знать имя/арность;
// детали сигнатуры для линтов не нужны, остаток формы пропускается.
func (p *Parser) parseSpecAttr(start source.Span) ast.Form {
	nameTok := p.expect(token.Atom)
	arity := uint32(0)
	if p.at(token.LParen) {
		arity = p.countTopLevelArgs()
	}
	p.syncToFullStop()
	return &ast.SpecAttr{
		Name:  ast.Name{Text: atomText(nameTok), Rng: nameTok.Span},
		Arity: arity,
		Rng:   p.spanFrom(start),
	}
}

// countTopLevelArgs считает аргументы верхнего уровня в скобках, не разбирая их.
func (p *Parser) countTopLevelArgs() uint32 {
	p.bump() // '('
	if p.at(token.RParen) {
		p.bump()
		return 0
	}
	depth := 0
	count := uint32(1)
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LParen, token.LBrace, token.LBracket, token.BinOpen:
			depth++
		case token.RParen:
			if depth == 0 {
				p.bump()
				return count
			}
			depth--
		case token.RBrace, token.RBracket, token.BinClose:
			depth--
		case token.Comma:
			if depth == 0 {
				count++
			}
		case token.FullStop:
			return count
		}
		p.bump()
	}
	return count
}

func (p *Parser) parseCompileAttr(start source.Span) ast.Form {
	p.expect(token.LParen)
	opts := p.parseExpr()
	p.accept(token.RParen)
	p.expect(token.FullStop)
	return &ast.CompileAttr{Options: opts, Rng: p.spanFrom(start)}
}

// ---------------------------------------------------------------------
// Function declarations

func (p *Parser) parseFunDecl() ast.Form {
	start := p.cur().Span
	decl := &ast.FunDecl{}

	for {
		clause, ok := p.parseFunClause()
		if !ok {
			break
		}
		decl.Clauses = append(decl.Clauses, clause)

		if _, ok := p.accept(token.Semicolon); ok {
			decl.Seps = append(decl.Seps, ast.SepInfo{Present: true, PrevSpan: clause.Rng})
			if !p.atClauseStart() {
				p.errorf(p.cur().Span, "expected a function clause after ';'")
				break
			}
			continue
		}
		if _, ok := p.accept(token.FullStop); ok {
			break
		}
		if p.atClauseStart() {
			// Следующая клауза без ';' — классическая опечатка.
			decl.Seps = append(decl.Seps, ast.SepInfo{Present: false, PrevSpan: clause.Rng})
			continue
		}
		p.errorf(p.cur().Span, "expected ';' or '.' after function clause")
		p.syncToFullStop()
		break
	}

	if len(decl.Clauses) == 0 {
		p.syncToFullStop()
		return nil
	}
	decl.Rng = p.spanFrom(start)
	return decl
}

func (p *Parser) atClauseStart() bool {
	return p.at(token.Atom) && p.peek().Kind == token.LParen
}

func (p *Parser) parseFunClause() (*ast.FunClause, bool) {
	if !p.at(token.Atom) {
		p.errorf(p.cur().Span, "expected a function clause")
		return nil, false
	}
	start := p.cur().Span
	nameTok := p.bump()
	clause := &ast.FunClause{
		Name: ast.Name{Text: atomText(nameTok), Rng: nameTok.Span},
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
	return clause, true
}

// parseGuards разбирает альтернативы через ';', конъюнкции через ','.
func (p *Parser) parseGuards() [][]ast.Expr {
	var out [][]ast.Expr
	for {
		var group []ast.Expr
		for {
			group = append(group, p.parseExpr())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		out = append(out, group)
		if _, ok := p.accept(token.Semicolon); !ok {
			break
		}
	}
	return out
}

// parseBody разбирает последовательность выражений через ','.
// Останавливается на разделителе клауз, конце формы или закрывающем токене.
func (p *Parser) parseBody() []ast.Expr {
	var out []ast.Expr
	for {
		out = append(out, p.parseExpr())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	return out
}

func (p *Parser) parseExprListUntil(closer token.Kind) []ast.Expr {
	var out []ast.Expr
	if p.at(closer) {
		return out
	}
	for {
		out = append(out, p.parseExpr())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	return out
}

// ---------------------------------------------------------------------

func atomText(tok token.Token) string {
	if len(tok.Text) >= 2 && tok.Text[0] == '\'' {
		return tok.Text[1 : len(tok.Text)-1]
	}
	return tok.Text
}

func stringText(tok token.Token) string {
	if len(tok.Text) >= 2 && tok.Text[0] == '"' {
		s, err := strconv.Unquote(tok.Text)
		if err == nil {
			return s
		}
		return tok.Text[1 : len(tok.Text)-1]
	}
	return tok.Text
}

func parseArity(text string) uint32 {
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0
	}
	out, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return out
}
