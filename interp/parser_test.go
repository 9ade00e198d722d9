package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"2 ** -1", "(2 ** (-1))"},
		{"a // b % c", "((a // b) % c)"},
		{"not a and b", "((not a) and b)"},
		{"a or b and c", "(a or (b and c))"},
		{"not a == b", "(not (a == b))"},
		{"a < b <= c", "(a < b <= c)"},
		{"(a < b) < c", "((a < b) < c)"},
		{"a not in b", "(a not in b)"},
		{"a in b and c", "((a in b) and c)"},
		{"x if c else y", "(x if c else y)"},
		{"x if a else y if b else z", "(x if a else (y if b else z))"},
		{"f(1, k=2)", "f(1, k=2)"},
		{"f()", "f()"},
		{"f(g(x))[0]", "f(g(x))[0]"},
		{"x[1:]", "x[1:]"},
		{"x[:2]", "x[:2]"},
		{"x[:]", "x[:]"},
		{"[1, 'a', None]", "[1, 'a', None]"},
		{"[]", "[]"},
		{"(1,)", "(1,)"},
		{"()", "()"},
		{"{'a': 1, 'b': [2]}", "{'a': 1, 'b': [2]}"},
		{"'a' 'b'", "'ab'"},
		{"True or False", "(True or False)"},
		{`f"x={x!r:>5}"`, `f"x={x!r:>5}"`},
		{`f"{{a}} {b}"`, `f"{{a}} {b}"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, program.Statements, 1)
			assert.Equal(t, tt.expected, program.Statements[0].String())
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"result = tool_0(text=question)", "result = tool_0(text=question)"},
		{"a, b = 1, 2", "(a, b) = (1, 2)"},
		{"x = y = 5", "x = y = 5"},
		{"d['k'] = v", "d['k'] = v"},
		{"total += 1", "total += 1"},
		{"[a, b] = pair", "[a, b] = pair"},
		{"a = 1; b = 2\n\nc = 3;", "a = 1\nb = 2\nc = 3"},
		{"# only a comment\n", ""},
		{"x = f(\n    1,\n    2,\n)", "x = f(1, 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, program.String())
		})
	}

	t.Run("statement kinds", func(t *testing.T) {
		program, err := Parse("x = 1\nx += 2\nprint(x)")
		require.NoError(t, err)
		require.Len(t, program.Statements, 3)
		assert.IsType(t, &AssignStatement{}, program.Statements[0])
		assert.IsType(t, &AugAssignStatement{}, program.Statements[1])
		assert.IsType(t, &ExpressionStatement{}, program.Statements[2])
	})

	t.Run("f-string parts", func(t *testing.T) {
		program, err := Parse(`f"a{b:.2f}c{d!s}"`)
		require.NoError(t, err)
		fs, ok := program.Statements[0].(*ExpressionStatement).Expression.(*FString)
		require.True(t, ok)
		require.Len(t, fs.Parts, 4)
		assert.Equal(t, "a", fs.Parts[0].Literal)
		assert.Equal(t, "b", fs.Parts[1].Expr.String())
		assert.Equal(t, ".2f", fs.Parts[1].Spec)
		assert.Equal(t, "c", fs.Parts[2].Literal)
		assert.Equal(t, 's', fs.Parts[3].Conversion)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
	}{
		{"import", "import os", `unsupported statement "import"`, 1},
		{"function definition", "x = 1\ndef f(): pass", `unsupported statement "def"`, 2},
		{"if statement", "if x: y = 1", `unsupported statement "if"`, 1},
		{"lambda", "f = lambda: 1", `unsupported syntax "lambda"`, 1},
		{"attribute access", "os.system('ls')", "attribute access is not allowed", 1},
		{"keyword order", "f(a=1, 2)", "positional argument follows keyword argument", 1},
		{"repeated keyword", "f(a=1, a=2)", "keyword argument repeated: a", 1},
		{"unpacking", "f(*args)", "argument unpacking is not supported", 1},
		{"assign to literal", "1 = x", "cannot assign to expression", 1},
		{"assign to call", "f() = x", "cannot assign to function call", 1},
		{"augmented tuple", "a, b += 1", "illegal expression for augmented assignment", 1},
		{"unclosed paren", "x = (1", `expected ")"`, 1},
		{"unexpected token", "x = 1\ny = )", "invalid syntax", 2},
		{"trailing tokens", "x = 1 2", "invalid syntax", 1},
		{"set literal", "{1, 2}", "set literals are not supported", 1},
		{"leading zeros", "x = 007", "leading zeros", 1},
		{"invalid character", "x = $", `invalid character "$"`, 1},
		{"unterminated string", "x = 'abc", "unterminated string literal", 1},
		{"f-string single brace", `f"a}"`, "single '}' is not allowed", 1},
		{"f-string unclosed", `f"{a"`, "expecting '}'", 1},
		{"f-string empty", `f"{}"`, "empty expression not allowed", 1},
		{"f-string bad conversion", `f"{a!x}"`, "invalid conversion character", 1},
		{"f-string bad expression", "x = 1\ny = f\"{a +}\"", "invalid syntax", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, program)
			assert.True(t, errors.Is(err, ErrCodeExecution))

			var ce *CodeError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, ce.Message, "SyntaxError")
			assert.Contains(t, ce.Message, tt.message)
			assert.Equal(t, tt.line, ce.Line)
		})
	}
}
