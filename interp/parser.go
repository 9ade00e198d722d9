package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator precedence levels
const (
	_ int = iota
	LOWEST
	OR      // or
	AND     // and
	NOT     // not X
	COMPARE // == != < > <= >= in, not in
	SUM     // + -
	PRODUCT // * / // %
	PREFIX  // -X or +X
	POWER   // **
	CALL    // myFunction(X), x[i]
)

var precedences = map[TokenType]int{
	KW_OR:       OR,
	KW_AND:      AND,
	OP_EQ:       COMPARE,
	OP_NEQ:      COMPARE,
	OP_LT:       COMPARE,
	OP_GT:       COMPARE,
	OP_LTE:      COMPARE,
	OP_GTE:      COMPARE,
	KW_IN:       COMPARE,
	KW_NOT:      COMPARE,
	OP_PLUS:     SUM,
	OP_MINUS:    SUM,
	OP_STAR:     PRODUCT,
	OP_SLASH:    PRODUCT,
	OP_FLOORDIV: PRODUCT,
	OP_PERCENT:  PRODUCT,
	OP_POWER:    POWER,
	LPAREN:      CALL,
	LBRACKET:    CALL,
	DOT:         CALL,
}

var augmented = map[TokenType]string{
	OP_PLUS_ASSIGN:  "+",
	OP_MINUS_ASSIGN: "-",
	OP_STAR_ASSIGN:  "*",
	OP_SLASH_ASSIGN: "/",
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// bailout aborts parsing on the first syntax error.
type bailout struct {
	err *CodeError
}

// Parser represents the parser
type Parser struct {
	l *Lexer

	curToken  Token
	peekToken Token

	// at pins error positions to an enclosing token; set while parsing
	// expressions embedded in f-strings.
	at *Token

	prefixParseFns map[TokenType]prefixParseFn
	infixParseFns  map[TokenType]infixParseFn
}

// Parse parses code into a Program. The first syntax error stops parsing
// and is returned as a *CodeError.
func Parse(code string) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err
		}
	}()
	return newParser(NewLexer(code), nil).parseProgram(), nil
}

func newParser(l *Lexer, at *Token) *Parser {
	p := &Parser{l: l, at: at}

	p.prefixParseFns = map[TokenType]prefixParseFn{
		IDENT:       p.parseName,
		INT:         p.parseIntLiteral,
		FLOAT:       p.parseFloatLiteral,
		STRING:      p.parseStringLiteral,
		FSTRING:     p.parseStringLiteral,
		KW_TRUE:     p.parseBoolLiteral,
		KW_FALSE:    p.parseBoolLiteral,
		KW_NONE:     p.parseNoneLiteral,
		KW_NOT:      p.parseNotExpression,
		OP_MINUS:    p.parseUnaryExpression,
		OP_PLUS:     p.parseUnaryExpression,
		LPAREN:      p.parseGroupedExpression,
		LBRACKET:    p.parseListLiteral,
		LBRACE:      p.parseDictLiteral,
		KW_RESERVED: p.parseUnsupported,
		KW_IF:       p.parseUnsupported,
	}

	p.infixParseFns = map[TokenType]infixParseFn{
		KW_OR:       p.parseBinaryExpression,
		KW_AND:      p.parseBinaryExpression,
		OP_PLUS:     p.parseBinaryExpression,
		OP_MINUS:    p.parseBinaryExpression,
		OP_STAR:     p.parseBinaryExpression,
		OP_SLASH:    p.parseBinaryExpression,
		OP_FLOORDIV: p.parseBinaryExpression,
		OP_PERCENT:  p.parseBinaryExpression,
		OP_POWER:    p.parsePowerExpression,
		OP_EQ:       p.parseCompareExpression,
		OP_NEQ:      p.parseCompareExpression,
		OP_LT:       p.parseCompareExpression,
		OP_GT:       p.parseCompareExpression,
		OP_LTE:      p.parseCompareExpression,
		OP_GTE:      p.parseCompareExpression,
		KW_IN:       p.parseCompareExpression,
		KW_NOT:      p.parseCompareExpression,
		LPAREN:      p.parseCallExpression,
		LBRACKET:    p.parseIndexExpression,
		DOT:         p.parseAttribute,
	}

	// Read two tokens to set both curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// nextToken advances the parser to the next token
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == ILLEGAL {
		tok := p.peekToken
		if len([]rune(tok.Literal)) == 1 {
			p.fail(tok, "invalid character %q", tok.Literal)
		}
		p.fail(tok, "%s", tok.Literal)
	}
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the peek token has the given type and fails
// otherwise.
func (p *Parser) expectPeek(t TokenType) {
	if !p.peekTokenIs(t) {
		p.fail(p.peekToken, "expected %q, got %s", t.String(), p.peekToken.describe())
	}
	p.nextToken()
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) fail(tok Token, format string, args ...any) {
	if p.at != nil {
		tok = *p.at
	}
	panic(bailout{err: &CodeError{
		Message: "SyntaxError: " + fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}})
}

func (p *Parser) failNode(node Node, format string, args ...any) {
	line, col := node.Pos()
	p.fail(Token{Line: line, Column: col}, format, args...)
}

func (p *Parser) skipSeparators() {
	for p.curTokenIs(NEWLINE) || p.curTokenIs(SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseProgram() *Program {
	program := &Program{}
	p.skipSeparators()
	for !p.curTokenIs(EOF) {
		program.Statements = append(program.Statements, p.parseStatement())
		p.nextToken()
		if !p.curTokenIs(NEWLINE) && !p.curTokenIs(SEMICOLON) && !p.curTokenIs(EOF) {
			p.fail(p.curToken, "invalid syntax: unexpected %s", p.curToken.describe())
		}
		p.skipSeparators()
	}
	return program
}

func (p *Parser) parseStatement() Statement {
	tok := p.curToken
	if tok.Type == KW_RESERVED || tok.Type == KW_IF || tok.Type == KW_ELSE {
		p.fail(tok, "unsupported statement %q: only assignments and expressions are allowed", tok.Literal)
	}

	expr := p.parseExpressionList()

	if op, ok := augmented[p.peekToken.Type]; ok {
		switch expr.(type) {
		case *Name, *IndexExpression:
		default:
			p.failNode(expr, "illegal expression for augmented assignment")
		}
		p.nextToken()
		p.nextToken()
		return &AugAssignStatement{base: base{tok}, Target: expr, Operator: op, Value: p.parseExpressionList()}
	}

	if !p.peekTokenIs(OP_ASSIGN) {
		return &ExpressionStatement{base: base{tok}, Expression: expr}
	}

	stmt := &AssignStatement{base: base{tok}}
	value := expr
	for p.peekTokenIs(OP_ASSIGN) {
		p.checkTarget(value)
		stmt.Targets = append(stmt.Targets, value)
		p.nextToken()
		p.nextToken()
		value = p.parseExpressionList()
	}
	stmt.Value = value
	return stmt
}

// checkTarget rejects assignment targets other than names, subscripts and
// sequences of those.
func (p *Parser) checkTarget(expr Expression) {
	switch t := expr.(type) {
	case *Name, *IndexExpression:
	case *TupleLiteral:
		for _, e := range t.Elements {
			p.checkTarget(e)
		}
	case *ListLiteral:
		for _, e := range t.Elements {
			p.checkTarget(e)
		}
	case *CallExpression:
		p.failNode(expr, "cannot assign to function call")
	case *SliceExpression:
		p.failNode(expr, "cannot assign to slice")
	default:
		p.failNode(expr, "cannot assign to expression")
	}
}

// parseExpressionList parses one expression or a bare tuple: a, b
func (p *Parser) parseExpressionList() Expression {
	tok := p.curToken
	first := p.parseTest()
	if !p.peekTokenIs(COMMA) {
		return first
	}
	tuple := &TupleLiteral{base: base{tok}, Elements: []Expression{first}}
	for p.peekTokenIs(COMMA) {
		p.nextToken()
		if p.endsList() {
			break
		}
		p.nextToken()
		tuple.Elements = append(tuple.Elements, p.parseTest())
	}
	return tuple
}

func (p *Parser) endsList() bool {
	switch p.peekToken.Type {
	case NEWLINE, SEMICOLON, EOF, OP_ASSIGN, RPAREN, RBRACKET, RBRACE:
		return true
	}
	_, aug := augmented[p.peekToken.Type]
	return aug
}

// parseTest parses an expression with an optional conditional suffix:
// body if test else orElse
func (p *Parser) parseTest() Expression {
	body := p.parseExpression(LOWEST)
	if !p.peekTokenIs(KW_IF) {
		return body
	}
	p.nextToken()
	tok := p.curToken
	p.nextToken()
	test := p.parseExpression(LOWEST)
	p.expectPeek(KW_ELSE)
	p.nextToken()
	return &ConditionalExpression{base: base{tok}, Body: body, Test: test, OrElse: p.parseTest()}
}

// parseExpression parses an expression with the given precedence
func (p *Parser) parseExpression(precedence int) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.fail(p.curToken, "invalid syntax: unexpected %s", p.curToken.describe())
	}
	left := prefix()

	for !p.peekTokenIs(NEWLINE) && !p.peekTokenIs(EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseName() Expression {
	return &Name{base: base{p.curToken}, Value: p.curToken.Literal}
}

func (p *Parser) parseIntLiteral() Expression {
	tok := p.curToken
	lit := tok.Literal
	if len(lit) > 1 && lit[0] == '0' && isDigit(rune(lit[1])) {
		if strings.Trim(lit, "0") != "" {
			p.fail(tok, "leading zeros in decimal integer literals are not permitted")
		}
		lit = "0"
	}
	value, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			p.fail(tok, "integer literal %s is too large", tok.Literal)
		}
		p.fail(tok, "invalid integer literal %q", tok.Literal)
	}
	return &IntLiteral{base: base{tok}, Value: value}
}

func (p *Parser) parseFloatLiteral() Expression {
	tok := p.curToken
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.fail(tok, "invalid float literal %q", tok.Literal)
	}
	return &FloatLiteral{base: base{tok}, Value: value}
}

// parseStringLiteral joins adjacent string literals; any f-string among
// them makes the whole literal interpolated.
func (p *Parser) parseStringLiteral() Expression {
	tok := p.curToken
	var parts []FStringPart
	interpolated := false
	for {
		if p.curTokenIs(FSTRING) {
			interpolated = true
			parts = appendParts(parts, p.parseFString(p.curToken)...)
		} else {
			parts = appendParts(parts, FStringPart{Literal: p.curToken.Literal})
		}
		if !p.peekTokenIs(STRING) && !p.peekTokenIs(FSTRING) {
			break
		}
		p.nextToken()
	}

	if interpolated {
		return &FString{base: base{tok}, Parts: parts}
	}
	var value string
	if len(parts) > 0 {
		value = parts[0].Literal
	}
	return &StringLiteral{base: base{tok}, Value: value}
}

// appendParts merges adjacent literal text and drops empty literals.
func appendParts(parts []FStringPart, more ...FStringPart) []FStringPart {
	for _, part := range more {
		if part.Expr == nil {
			if part.Literal == "" {
				continue
			}
			if n := len(parts); n > 0 && parts[n-1].Expr == nil {
				parts[n-1].Literal += part.Literal
				continue
			}
		}
		parts = append(parts, part)
	}
	return parts
}

// parseFString splits an f-string body into literal text and replacement
// fields: {expr}, {expr!r}, {expr:spec}.
func (p *Parser) parseFString(tok Token) []FStringPart {
	src := []rune(tok.Literal)
	var parts []FStringPart
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, FStringPart{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch {
		case ch == '{' && i+1 < len(src) && src[i+1] == '{':
			lit.WriteRune('{')
			i++
		case ch == '}' && i+1 < len(src) && src[i+1] == '}':
			lit.WriteRune('}')
			i++
		case ch == '}':
			p.fail(tok, "f-string: single '}' is not allowed")
		case ch == '{':
			flush()
			var part FStringPart
			part, i = p.parseReplacementField(tok, src, i+1)
			parts = append(parts, part)
		default:
			lit.WriteRune(ch)
		}
	}
	flush()
	return parts
}

// parseReplacementField parses the field starting at src[start] and returns
// it with the index of its closing brace.
func (p *Parser) parseReplacementField(tok Token, src []rune, start int) (FStringPart, int) {
	depth := 0
	var quote rune
	i := start
scan:
	for ; i < len(src); i++ {
		ch := src[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				break scan
			}
			depth--
		case '!':
			if depth == 0 && (i+1 >= len(src) || src[i+1] != '=') {
				break scan
			}
		case ':':
			if depth == 0 {
				break scan
			}
		}
	}
	if i >= len(src) {
		p.fail(tok, "f-string: expecting '}'")
	}

	text := string(src[start:i])
	if strings.TrimSpace(text) == "" {
		p.fail(tok, "f-string: empty expression not allowed")
	}
	part := FStringPart{Expr: p.parseEmbedded(tok, text)}

	if src[i] == '!' {
		i++
		if i >= len(src) || !strings.ContainsRune("rsa", src[i]) {
			p.fail(tok, "f-string: invalid conversion character: expected 's', 'r', or 'a'")
		}
		part.Conversion = src[i]
		i++
	}
	if i < len(src) && src[i] == ':' {
		i++
		specStart := i
		for i < len(src) && src[i] != '}' {
			if src[i] == '{' {
				p.fail(tok, "f-string: nested replacement fields are not supported")
			}
			i++
		}
		part.Spec = string(src[specStart:i])
	}
	if i >= len(src) || src[i] != '}' {
		p.fail(tok, "f-string: expecting '}'")
	}
	return part, i
}

// parseEmbedded parses the expression of an f-string replacement field.
func (p *Parser) parseEmbedded(tok Token, text string) Expression {
	sub := newParser(NewLexer(strings.TrimSpace(text)), &tok)
	expr := sub.parseTest()
	if !sub.peekTokenIs(EOF) {
		sub.fail(sub.peekToken, "f-string: invalid syntax")
	}
	return expr
}

func (p *Parser) parseBoolLiteral() Expression {
	return &BoolLiteral{base: base{p.curToken}, Value: p.curTokenIs(KW_TRUE)}
}

func (p *Parser) parseNoneLiteral() Expression {
	return &NoneLiteral{base: base{p.curToken}}
}

func (p *Parser) parseNotExpression() Expression {
	tok := p.curToken
	p.nextToken()
	return &UnaryExpression{base: base{tok}, Operator: "not", Operand: p.parseExpression(NOT)}
}

func (p *Parser) parseUnaryExpression() Expression {
	tok := p.curToken
	p.nextToken()
	return &UnaryExpression{base: base{tok}, Operator: tok.Literal, Operand: p.parseExpression(PREFIX)}
}

// parseGroupedExpression parses (expr), () and (a, b)
func (p *Parser) parseGroupedExpression() Expression {
	tok := p.curToken
	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return &TupleLiteral{base: base{tok}}
	}
	p.nextToken()
	expr := p.parseExpressionList()
	p.expectPeek(RPAREN)

	switch e := expr.(type) {
	case *CompareExpression:
		e.grouped = true
	case *TupleLiteral:
		e.Token = tok
	}
	return expr
}

func (p *Parser) parseListLiteral() Expression {
	list := &ListLiteral{base: base{p.curToken}}
	list.Elements = p.parseExpressionSequence(RBRACKET)
	return list
}

// parseExpressionSequence parses comma-separated expressions up to end,
// allowing a trailing comma.
func (p *Parser) parseExpressionSequence(end TokenType) []Expression {
	var elements []Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return elements
	}
	for {
		p.nextToken()
		elements = append(elements, p.parseTest())
		if !p.peekTokenIs(COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
	}
	p.expectPeek(end)
	return elements
}

func (p *Parser) parseDictLiteral() Expression {
	dict := &DictLiteral{base: base{p.curToken}}
	if p.peekTokenIs(RBRACE) {
		p.nextToken()
		return dict
	}
	for {
		p.nextToken()
		key := p.parseTest()
		if p.peekTokenIs(COMMA) || p.peekTokenIs(RBRACE) {
			p.failNode(key, "set literals are not supported")
		}
		p.expectPeek(COLON)
		p.nextToken()
		dict.Entries = append(dict.Entries, DictEntry{Key: key, Value: p.parseTest()})
		if !p.peekTokenIs(COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(RBRACE) {
			break
		}
	}
	p.expectPeek(RBRACE)
	return dict
}

func (p *Parser) parseUnsupported() Expression {
	p.fail(p.curToken, "unsupported syntax %q", p.curToken.Literal)
	return nil
}

func (p *Parser) parseBinaryExpression(left Expression) Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	return &BinaryExpression{base: base{tok}, Left: left, Operator: tok.Literal, Right: p.parseExpression(precedence)}
}

// parsePowerExpression is right-associative and binds tighter than a unary
// operator on its left but not on its right: -2**2 == -4, 2**-1 == 0.5.
func (p *Parser) parsePowerExpression(left Expression) Expression {
	tok := p.curToken
	p.nextToken()
	return &BinaryExpression{base: base{tok}, Left: left, Operator: "**", Right: p.parseExpression(PREFIX)}
}

// parseCompareExpression builds comparison chains: a < b < c compares
// each adjacent pair.
func (p *Parser) parseCompareExpression(left Expression) Expression {
	tok := p.curToken
	op := tok.Literal
	if p.curTokenIs(KW_NOT) {
		if !p.peekTokenIs(KW_IN) {
			p.fail(p.peekToken, "invalid syntax: expected \"in\" after \"not\", got %s", p.peekToken.describe())
		}
		p.nextToken()
		op = "not in"
	}
	p.nextToken()
	right := p.parseExpression(COMPARE)

	if chain, ok := left.(*CompareExpression); ok && !chain.grouped {
		chain.Operators = append(chain.Operators, op)
		chain.Comparators = append(chain.Comparators, right)
		return chain
	}
	return &CompareExpression{
		base:        base{tok},
		Left:        left,
		Operators:   []string{op},
		Comparators: []Expression{right},
	}
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	call := &CallExpression{base: base{p.curToken}, Function: function}
	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return call
	}
	for {
		p.nextToken()
		switch {
		case p.curTokenIs(IDENT) && p.peekTokenIs(OP_ASSIGN):
			name := p.curToken.Literal
			for _, kw := range call.Keywords {
				if kw.Name == name {
					p.fail(p.curToken, "keyword argument repeated: %s", name)
				}
			}
			p.nextToken()
			p.nextToken()
			call.Keywords = append(call.Keywords, Keyword{Name: name, Value: p.parseTest()})
		case p.curTokenIs(OP_STAR) || p.curTokenIs(OP_POWER):
			p.fail(p.curToken, "argument unpacking is not supported")
		default:
			if len(call.Keywords) > 0 {
				p.fail(p.curToken, "positional argument follows keyword argument")
			}
			call.Arguments = append(call.Arguments, p.parseTest())
		}
		if !p.peekTokenIs(COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(RPAREN) {
			break
		}
	}
	p.expectPeek(RPAREN)
	return call
}

// parseIndexExpression parses x[i] and x[lo:hi]
func (p *Parser) parseIndexExpression(object Expression) Expression {
	tok := p.curToken
	p.nextToken()

	var low Expression
	if !p.curTokenIs(COLON) {
		low = p.parseTest()
		if p.peekTokenIs(RBRACKET) {
			p.nextToken()
			return &IndexExpression{base: base{tok}, Object: object, Index: low}
		}
		p.expectPeek(COLON)
	}

	slice := &SliceExpression{base: base{tok}, Object: object, Low: low}
	if !p.peekTokenIs(RBRACKET) {
		p.nextToken()
		slice.High = p.parseTest()
	}
	p.expectPeek(RBRACKET)
	return slice
}

func (p *Parser) parseAttribute(_ Expression) Expression {
	name := p.peekToken.Literal
	if !p.peekTokenIs(IDENT) {
		name = p.peekToken.describe()
	}
	p.fail(p.curToken, "attribute access is not allowed (%q)", "."+name)
	return nil
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}
