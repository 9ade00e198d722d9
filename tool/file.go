package tool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ai "github.com/spetersoncode/codeagent"
)

// FileToolOption configures file tools.
type FileToolOption func(*fileToolConfig)

type fileToolConfig struct {
	basePath          string
	allowedExtensions []string
	maxFileSize       int64
}

// WithBasePath restricts file operations to a specific directory.
// All paths will be resolved relative to this base path.
func WithBasePath(path string) FileToolOption {
	return func(c *fileToolConfig) {
		c.basePath = path
	}
}

// WithAllowedExtensions restricts file operations to specific file extensions.
// Extensions may be given with or without the leading dot.
func WithAllowedExtensions(exts ...string) FileToolOption {
	return func(c *fileToolConfig) {
		c.allowedExtensions = exts
	}
}

// WithMaxFileSize sets the maximum file size that will be read.
// Default is 10MB.
func WithMaxFileSize(bytes int64) FileToolOption {
	return func(c *fileToolConfig) {
		c.maxFileSize = bytes
	}
}

func applyFileOpts(opts []FileToolOption) *fileToolConfig {
	cfg := &fileToolConfig{
		maxFileSize: 10 * 1024 * 1024, // 10MB default
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *fileToolConfig) resolvePath(path string) (string, error) {
	path = filepath.Clean(path)
	if c.basePath == "" {
		return path, nil
	}

	base := filepath.Clean(c.basePath)
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(base, path)
	}

	// The resolved path must stay within the base path
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ErrPathNotAllowed{Path: path, Reason: "is outside the base path"}
	}
	return full, nil
}

func (c *fileToolConfig) checkExtension(path string) error {
	if len(c.allowedExtensions) == 0 {
		return nil
	}

	ext := filepath.Ext(path)
	for _, allowed := range c.allowedExtensions {
		if ext == allowed || ext == "."+allowed {
			return nil
		}
	}
	return &ErrPathNotAllowed{Path: path, Reason: fmt.Sprintf("has disallowed extension %q", ext)}
}

// readLines reads lines start through end (1-based, inclusive) from r.
// An end of zero reads to the end of the input.
func readLines(r io.Reader, start, end int, maxSize int64) (string, error) {
	if start < 1 {
		return "", fmt.Errorf("start must be >= 1, got %d", start)
	}
	if end != 0 && end < start {
		return "", fmt.Errorf("end (%d) must be >= start (%d)", end, start)
	}

	scanner := bufio.NewScanner(r)
	var sb strings.Builder
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum < start {
			continue
		}
		if end > 0 && lineNum > end {
			break
		}

		line := scanner.Text()
		if int64(sb.Len()+len(line)+1) > maxSize {
			return "", fmt.Errorf("line range content exceeds maximum size %d", maxSize)
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	if lineNum < start {
		return "", fmt.Errorf("start line %d is beyond file length (%d lines)", start, lineNum)
	}
	return sb.String(), nil
}

type readFileArgs struct {
	Path  string `mapstructure:"path"`
	Start int    `mapstructure:"start"`
	End   int    `mapstructure:"end"`
}

func (a readFileArgs) Validate() error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// ReadFile returns a tool that reads a text file, optionally limited to a
// range of lines.
func ReadFile(opts ...FileToolOption) ai.Tool {
	cfg := applyFileOpts(opts)

	return Func("reads the text file at `path` and returns its contents; "+
		"optional `start` and `end` select a 1-based inclusive line range",
		func(ctx context.Context, args readFileArgs) (string, error) {
			path, err := cfg.resolvePath(args.Path)
			if err != nil {
				return "", err
			}
			if err := cfg.checkExtension(path); err != nil {
				return "", err
			}

			info, err := os.Stat(path)
			if err != nil {
				return "", err
			}
			if info.Size() > cfg.maxFileSize {
				return "", fmt.Errorf("file size %d exceeds maximum %d", info.Size(), cfg.maxFileSize)
			}

			f, err := os.Open(path)
			if err != nil {
				return "", err
			}
			defer f.Close()

			if args.Start > 0 || args.End > 0 {
				return readLines(f, max(args.Start, 1), args.End, cfg.maxFileSize)
			}

			content, err := io.ReadAll(io.LimitReader(f, cfg.maxFileSize))
			if err != nil {
				return "", err
			}
			return string(content), nil
		})
}
