package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/codeagent"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("one\ntwo\nthree\nfour"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.bin"), []byte{0, 1}, 0o644))

	read := func(tl ai.Tool, kw map[string]any) (any, error) {
		return tl.Call(context.Background(), ai.Args{Keyword: kw})
	}

	t.Run("whole file", func(t *testing.T) {
		out, err := read(ReadFile(WithBasePath(dir)), map[string]any{"path": "notes.txt"})
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\nthree\nfour", out)
	})

	t.Run("line range", func(t *testing.T) {
		out, err := read(ReadFile(WithBasePath(dir)), map[string]any{"path": "notes.txt", "start": int64(2), "end": int64(3)})
		require.NoError(t, err)
		assert.Equal(t, "two\nthree", out)
	})

	t.Run("open-ended range", func(t *testing.T) {
		out, err := read(ReadFile(WithBasePath(dir)), map[string]any{"path": "notes.txt", "start": int64(3)})
		require.NoError(t, err)
		assert.Equal(t, "three\nfour", out)
	})

	t.Run("start beyond end of file", func(t *testing.T) {
		_, err := read(ReadFile(WithBasePath(dir)), map[string]any{"path": "notes.txt", "start": int64(9)})
		assert.ErrorContains(t, err, "beyond file length")
	})

	t.Run("confined to base path", func(t *testing.T) {
		_, err := read(ReadFile(WithBasePath(dir)), map[string]any{"path": "../etc/passwd"})
		var denied *ErrPathNotAllowed
		assert.ErrorAs(t, err, &denied)

		_, err = read(ReadFile(WithBasePath(dir)), map[string]any{"path": "/etc/passwd"})
		assert.ErrorAs(t, err, &denied)
	})

	t.Run("extension allow list", func(t *testing.T) {
		tl := ReadFile(WithBasePath(dir), WithAllowedExtensions("txt"))
		_, err := read(tl, map[string]any{"path": "data.bin"})
		assert.ErrorContains(t, err, "disallowed extension")

		_, err = read(tl, map[string]any{"path": "notes.txt"})
		assert.NoError(t, err)
	})

	t.Run("size limit", func(t *testing.T) {
		_, err := read(ReadFile(WithBasePath(dir), WithMaxFileSize(4)), map[string]any{"path": "notes.txt"})
		assert.ErrorContains(t, err, "exceeds maximum")
	})
}
