package codeagent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTool(t *testing.T) {
	t.Run("exposes description and calls function", func(t *testing.T) {
		tl := NewTool("echoes its input", func(ctx context.Context, args Args) (any, error) {
			return args.String("text", 0)
		})

		assert.Equal(t, "echoes its input", tl.Description())

		out, err := tl.Call(context.Background(), Args{Keyword: map[string]any{"text": "hi"}})
		require.NoError(t, err)
		assert.Equal(t, "hi", out)
	})
}

func TestArgsLookup(t *testing.T) {
	args := Args{
		Positional: []any{"first", 2},
		Keyword:    map[string]any{"text": "named"},
	}

	t.Run("prefers keyword arguments", func(t *testing.T) {
		v, ok := args.Lookup("text", 0)
		assert.True(t, ok)
		assert.Equal(t, "named", v)
	})

	t.Run("falls back to position", func(t *testing.T) {
		v, ok := args.Lookup("count", 1)
		assert.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("negative position only checks keywords", func(t *testing.T) {
		_, ok := args.Lookup("count", -1)
		assert.False(t, ok)
	})

	t.Run("out of range position is missing", func(t *testing.T) {
		_, ok := args.Lookup("count", 5)
		assert.False(t, ok)
	})

	t.Run("Len counts both kinds", func(t *testing.T) {
		assert.Equal(t, 3, args.Len())
	})
}

func TestArgsString(t *testing.T) {
	t.Run("returns string argument", func(t *testing.T) {
		s, err := Args{Positional: []any{"x"}}.String("text", 0)
		require.NoError(t, err)
		assert.Equal(t, "x", s)
	})

	t.Run("errors on missing argument", func(t *testing.T) {
		_, err := Args{}.String("text", 0)
		assert.EqualError(t, err, `missing argument "text"`)
	})

	t.Run("errors on wrong type", func(t *testing.T) {
		_, err := Args{Keyword: map[string]any{"text": 3}}.String("text", 0)
		assert.EqualError(t, err, `argument "text" must be a string, got int`)
	})
}
