package interp

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/codeagent"
)

func TestRepr(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"none", nil, "None"},
		{"true", true, "True"},
		{"int", 42, "42"},
		{"negative int", int64(-3), "-3"},
		{"whole float", 2.0, "2.0"},
		{"negative zero", math.Copysign(0, -1), "-0.0"},
		{"fraction", 0.1, "0.1"},
		{"large float", 1e16, "1e+16"},
		{"small float", 0.00001, "1e-05"},
		{"infinity", math.Inf(1), "inf"},
		{"string", "hi", "'hi'"},
		{"string with quote", "it's", `"it's"`},
		{"string with both quotes", `it's "x"`, `'it\'s "x"'`},
		{"string escapes", "a\nb\\", `'a\nb\\'`},
		{"list", []any{int64(1), "a"}, "[1, 'a']"},
		{"go slice", []string{"a", "b"}, "['a', 'b']"},
		{"empty tuple", Tuple{}, "()"},
		{"single tuple", Tuple{int64(1)}, "(1,)"},
		{"dict", map[string]any{"b": 1, "a": []any{}}, "{'a': [], 'b': 1}"},
		{"callable", ai.Callable(func(context.Context, ai.Args) (any, error) { return nil, nil }), "<function>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Repr(tt.value))
		})
	}

	t.Run("str leaves strings bare", func(t *testing.T) {
		assert.Equal(t, "it's", Str("it's"))
		assert.Equal(t, "['it']", Str([]any{"it"}))
	})
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{nil, false, 0, int64(0), 0.0, "", []any{}, Tuple{}, map[string]any{}, []string{}} {
		assert.False(t, Truthy(v), "%#v", v)
	}
	for _, v := range []any{true, 1, -1, 0.5, "x", []any{nil}, Tuple{int64(0)}, map[string]any{"k": nil}, struct{}{}} {
		assert.True(t, Truthy(v), "%#v", v)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(1, int64(1)))
	assert.True(t, Equal(int64(1), 1.0))
	assert.True(t, Equal(true, 1))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal([]any{int64(1), "a"}, []string{"1", "a"}))
	assert.True(t, Equal([]string{"a"}, []any{"a"}))
	assert.True(t, Equal(map[string]int{"a": 1}, map[string]any{"a": int64(1)}))
	assert.False(t, Equal(Tuple{int64(1)}, []any{int64(1)}))
	assert.False(t, Equal("1", 1))
	assert.False(t, Equal(nil, 0))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "NoneType", TypeName(nil))
	assert.Equal(t, "int", TypeName(7))
	assert.Equal(t, "float", TypeName(float32(1)))
	assert.Equal(t, "str", TypeName("s"))
	assert.Equal(t, "list", TypeName([]int{1}))
	assert.Equal(t, "tuple", TypeName(Tuple{}))
	assert.Equal(t, "dict", TypeName(map[string]string{}))
	assert.Equal(t, "struct {}", TypeName(struct{}{}))
}

func TestParseFormatSpec(t *testing.T) {
	fs, err := parseFormatSpec("*^+#010,.3f")
	assert.NoError(t, err)
	assert.Equal(t, formatSpec{
		fill:      '*',
		align:     '^',
		sign:      '+',
		alt:       true,
		zero:      true,
		width:     10,
		grouping:  ',',
		precision: 3,
		verb:      'f',
	}, fs)

	_, err = parseFormatSpec(".f")
	assert.Error(t, err)

	_, err = parseFormatSpec("10fx")
	assert.Error(t, err)
}

func TestIntegerOverflow(t *testing.T) {
	tests := []struct {
		op   string
		a, b int64
	}{
		{"+", math.MaxInt64, 1},
		{"-", math.MinInt64, 1},
		{"*", math.MaxInt64, 2},
		{"*", math.MinInt64, -1},
		{"**", 2, 64},
		{"**", -3, 41},
		{"//", math.MinInt64, -1},
	}

	for _, tt := range tests {
		_, err := Binary(tt.op, tt.a, tt.b)
		assert.ErrorContains(t, err, "OverflowError", "%d %s %d", tt.a, tt.op, tt.b)
	}

	v, err := Binary("**", int64(2), int64(62))
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<62, v)

	v, err = Binary("*", int64(math.MinInt64/2), int64(2))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)

	_, err = Unary("-", int64(math.MinInt64))
	assert.ErrorContains(t, err, "OverflowError")
}

func TestRepeatLimit(t *testing.T) {
	v, err := Binary("*", "ab", int64(3))
	require.NoError(t, err)
	assert.Equal(t, "ababab", v)

	v, err = Binary("*", int64(2), []any{int64(1)})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(1)}, v)

	v, err = Binary("*", Tuple{}, int64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, Tuple{}, v)

	_, err = Binary("*", "ab", int64(1)<<62)
	assert.ErrorContains(t, err, "MemoryError")

	_, err = Binary("*", Tuple{int64(1)}, int64(maxRepeatLen+1))
	assert.ErrorContains(t, err, "MemoryError")
}

func TestNormalizeUnsigned(t *testing.T) {
	assert.Equal(t, int64(7), normalize(uint(7)))
	if big := ^uint(0); uint64(big) > math.MaxInt64 {
		assert.Equal(t, float64(big), normalize(big))
	}
	assert.Equal(t, float64(math.MaxUint64), normalize(uint64(math.MaxUint64)))
}

func TestParseFormatSpecLimits(t *testing.T) {
	_, err := parseFormatSpec("9999999999")
	assert.ErrorContains(t, err, "too many decimal digits")

	_, err = parseFormatSpec(".99999999999999999999")
	assert.ErrorContains(t, err, "too many decimal digits")

	fs, err := parseFormatSpec("65536")
	require.NoError(t, err)
	assert.Equal(t, maxFormatWidth, fs.width)
}
