package interp

import (
	"strconv"
	"strings"
	"unicode"
)

// Lexer tokenizes generated code
type Lexer struct {
	input    []rune
	pos      int // index of the current char
	line     int // 1-indexed line of the current char
	column   int // 1-indexed column of the current char
	depth    int // open (, [ and { count; newlines inside brackets are ignored
	lastType TokenType
}

// NewLexer creates a new Lexer instance
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []rune(input),
		line:     1,
		column:   1,
		lastType: NEWLINE,
	}
}

// Tokenize returns every token up to and including EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return l.emit(Token{Type: EOF, Line: l.line, Column: l.column})
		}
		if l.input[l.pos] != '\n' {
			break
		}
		line, column := l.line, l.column
		l.advance()
		if l.depth > 0 || l.lastType == NEWLINE {
			continue
		}
		return l.emit(Token{Type: NEWLINE, Literal: "\n", Line: line, Column: column})
	}

	line, column := l.line, l.column
	ch := l.input[l.pos]

	switch {
	case isIdentStart(ch):
		ident := l.readIdentifier()
		if q := l.peekAt(0); (q == '"' || q == '\'') && isStringPrefix(ident) {
			return l.emit(l.readString(strings.ToLower(ident), line, column))
		}
		return l.emit(Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: column})
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		return l.emit(l.readNumber(line, column))
	case ch == '"' || ch == '\'':
		return l.emit(l.readString("", line, column))
	}

	op := func(t TokenType, lit string) Token {
		for range []rune(lit) {
			l.advance()
		}
		return l.emit(Token{Type: t, Literal: lit, Line: line, Column: column})
	}
	next := l.peekAt(1)

	switch ch {
	case '=':
		if next == '=' {
			return op(OP_EQ, "==")
		}
		return op(OP_ASSIGN, "=")
	case '+':
		if next == '=' {
			return op(OP_PLUS_ASSIGN, "+=")
		}
		return op(OP_PLUS, "+")
	case '-':
		if next == '=' {
			return op(OP_MINUS_ASSIGN, "-=")
		}
		return op(OP_MINUS, "-")
	case '*':
		if next == '*' {
			return op(OP_POWER, "**")
		}
		if next == '=' {
			return op(OP_STAR_ASSIGN, "*=")
		}
		return op(OP_STAR, "*")
	case '/':
		if next == '/' {
			return op(OP_FLOORDIV, "//")
		}
		if next == '=' {
			return op(OP_SLASH_ASSIGN, "/=")
		}
		return op(OP_SLASH, "/")
	case '%':
		return op(OP_PERCENT, "%")
	case '!':
		if next == '=' {
			return op(OP_NEQ, "!=")
		}
	case '<':
		if next == '=' {
			return op(OP_LTE, "<=")
		}
		return op(OP_LT, "<")
	case '>':
		if next == '=' {
			return op(OP_GTE, ">=")
		}
		return op(OP_GT, ">")
	case ',':
		return op(COMMA, ",")
	case ':':
		return op(COLON, ":")
	case ';':
		return op(SEMICOLON, ";")
	case '.':
		return op(DOT, ".")
	case '(':
		l.depth++
		return op(LPAREN, "(")
	case ')':
		l.closeBracket()
		return op(RPAREN, ")")
	case '[':
		l.depth++
		return op(LBRACKET, "[")
	case ']':
		l.closeBracket()
		return op(RBRACKET, "]")
	case '{':
		l.depth++
		return op(LBRACE, "{")
	case '}':
		l.closeBracket()
		return op(RBRACE, "}")
	}

	l.advance()
	return l.emit(Token{Type: ILLEGAL, Literal: string(ch), Line: line, Column: column})
}

func (l *Lexer) emit(tok Token) Token {
	l.lastType = tok.Type
	return tok
}

func (l *Lexer) closeBracket() {
	if l.depth > 0 {
		l.depth--
	}
}

func (l *Lexer) peekAt(offset int) rune {
	i := l.pos + offset
	if i < len(l.input) {
		return l.input[i]
	}
	return 0
}

func (l *Lexer) advance() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// skipWhitespace skips blanks, comments and backslash line continuations.
// Newlines are left for NextToken.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f':
			l.advance()
		case ch == '\\' && l.peekAt(1) == '\n':
			l.advance()
			l.advance()
		case ch == '\\' && l.peekAt(1) == '\r' && l.peekAt(2) == '\n':
			l.advance()
			l.advance()
			l.advance()
		case ch == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.advance()
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber(line, column int) Token {
	start := l.pos
	isFloat := false

	if l.input[l.pos] == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.advance()
		l.advance()
		for l.pos < len(l.input) && (isHexDigit(l.input[l.pos]) || l.input[l.pos] == '_') {
			l.advance()
		}
		return Token{Type: INT, Literal: strings.ReplaceAll(string(l.input[start:l.pos]), "_", ""), Line: line, Column: column}
	}

	l.readDigits()
	if l.peekAt(0) == '.' && !isIdentStart(l.peekAt(1)) {
		isFloat = true
		l.advance()
		l.readDigits()
	}
	if e := l.peekAt(0); e == 'e' || e == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			isFloat = true
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			l.readDigits()
		}
	}

	tokType := INT
	if isFloat {
		tokType = FLOAT
	}
	return Token{Type: tokType, Literal: strings.ReplaceAll(string(l.input[start:l.pos]), "_", ""), Line: line, Column: column}
}

func (l *Lexer) readDigits() {
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '_') {
		l.advance()
	}
}

// readString reads a quoted literal. The token literal holds the decoded
// value; f-string bodies keep their braces for the parser.
func (l *Lexer) readString(prefix string, line, column int) Token {
	raw := strings.Contains(prefix, "r")
	tokType := STRING
	if strings.Contains(prefix, "f") {
		tokType = FSTRING
	}

	quote := l.advance()
	triple := false
	if l.peekAt(0) == quote && l.peekAt(1) == quote {
		l.advance()
		l.advance()
		triple = true
	}

	unterminated := Token{Type: ILLEGAL, Literal: "unterminated string literal", Line: line, Column: column}
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return unterminated
		}
		ch := l.input[l.pos]
		if ch == '\n' && !triple {
			return unterminated
		}
		if ch == quote {
			if !triple {
				l.advance()
				break
			}
			if l.peekAt(1) == quote && l.peekAt(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
			sb.WriteRune(l.advance())
			continue
		}
		if ch != '\\' {
			sb.WriteRune(l.advance())
			continue
		}

		l.advance()
		if l.pos >= len(l.input) {
			return unterminated
		}
		esc := l.advance()
		if raw {
			sb.WriteRune('\\')
			sb.WriteRune(esc)
			continue
		}
		switch esc {
		case '\n':
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case 'x', 'u', 'U':
			width := map[rune]int{'x': 2, 'u': 4, 'U': 8}[esc]
			r, ok := l.readHexEscape(width)
			if !ok {
				return Token{Type: ILLEGAL, Literal: "invalid \\" + string(esc) + " escape", Line: line, Column: column}
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('\\')
			sb.WriteRune(esc)
		}
	}

	return Token{Type: tokType, Literal: sb.String(), Line: line, Column: column}
}

func (l *Lexer) readHexEscape(width int) (rune, bool) {
	if l.pos+width > len(l.input) {
		return 0, false
	}
	digits := string(l.input[l.pos : l.pos+width])
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	for i := 0; i < width; i++ {
		l.advance()
	}
	return rune(n), true
}

func isStringPrefix(ident string) bool {
	switch strings.ToLower(ident) {
	case "r", "f", "b", "u", "rf", "fr", "rb", "br":
		return true
	}
	return false
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
