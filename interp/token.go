package interp

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE

	// Identifiers and literals
	IDENT   // variable and tool names
	INT     // 42, 0x2a, 1_000
	FLOAT   // 4.2, 1e3
	STRING  // 'a', "a", '''a''', r"a"
	FSTRING // f"a {b}"

	// Keywords
	KW_TRUE
	KW_FALSE
	KW_NONE
	KW_AND
	KW_OR
	KW_NOT
	KW_IN
	KW_IF
	KW_ELSE
	KW_RESERVED // recognized but unsupported: def, for, import, ...

	// Operators
	OP_ASSIGN       // =
	OP_PLUS_ASSIGN  // +=
	OP_MINUS_ASSIGN // -=
	OP_STAR_ASSIGN  // *=
	OP_SLASH_ASSIGN // /=
	OP_PLUS         // +
	OP_MINUS        // -
	OP_STAR         // *
	OP_SLASH        // /
	OP_FLOORDIV     // //
	OP_PERCENT      // %
	OP_POWER        // **
	OP_EQ           // ==
	OP_NEQ          // !=
	OP_LT           // <
	OP_GT           // >
	OP_LTE          // <=
	OP_GTE          // >=

	// Delimiters
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
)

var tokenNames = map[TokenType]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "end of input",
	NEWLINE:         "newline",
	IDENT:           "identifier",
	INT:             "integer",
	FLOAT:           "float",
	STRING:          "string",
	FSTRING:         "f-string",
	KW_TRUE:         "True",
	KW_FALSE:        "False",
	KW_NONE:         "None",
	KW_AND:          "and",
	KW_OR:           "or",
	KW_NOT:          "not",
	KW_IN:           "in",
	KW_IF:           "if",
	KW_ELSE:         "else",
	KW_RESERVED:     "keyword",
	OP_ASSIGN:       "=",
	OP_PLUS_ASSIGN:  "+=",
	OP_MINUS_ASSIGN: "-=",
	OP_STAR_ASSIGN:  "*=",
	OP_SLASH_ASSIGN: "/=",
	OP_PLUS:         "+",
	OP_MINUS:        "-",
	OP_STAR:         "*",
	OP_SLASH:        "/",
	OP_FLOORDIV:     "//",
	OP_PERCENT:      "%",
	OP_POWER:        "**",
	OP_EQ:           "==",
	OP_NEQ:          "!=",
	OP_LT:           "<",
	OP_GT:           ">",
	OP_LTE:          "<=",
	OP_GTE:          ">=",
	COMMA:           ",",
	COLON:           ":",
	SEMICOLON:       ";",
	DOT:             ".",
	LPAREN:          "(",
	RPAREN:          ")",
	LBRACKET:        "[",
	RBRACKET:        "]",
	LBRACE:          "{",
	RBRACE:          "}",
}

// String returns a human-readable name for the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("Token{Type: %s, Literal: %q, Line: %d, Column: %d}", t.Type, t.Literal, t.Line, t.Column)
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Type {
	case EOF, NEWLINE:
		return t.Type.String()
	case IDENT, INT, FLOAT, KW_RESERVED:
		return fmt.Sprintf("%q", t.Literal)
	case STRING, FSTRING:
		return t.Type.String()
	default:
		return fmt.Sprintf("%q", t.Type.String())
	}
}

var keywords = map[string]TokenType{
	"True":  KW_TRUE,
	"False": KW_FALSE,
	"None":  KW_NONE,
	"and":   KW_AND,
	"or":    KW_OR,
	"not":   KW_NOT,
	"in":    KW_IN,
	"if":    KW_IF,
	"else":  KW_ELSE,
}

// reserved lists keywords of the full language that generated code may
// contain but this evaluator does not run.
var reserved = map[string]bool{
	"as": true, "assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"import": true, "is": true, "lambda": true, "nonlocal": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true,
	"yield": true,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if reserved[ident] {
		return KW_RESERVED
	}
	return IDENT
}
