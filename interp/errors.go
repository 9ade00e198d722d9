package interp

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrCodeExecution matches every evaluator failure, from syntax errors
	// to runtime type errors in the generated code.
	ErrCodeExecution = errors.New("code execution error")

	// ErrLimitExceeded indicates that the maximum number of tool calls was
	// reached.
	ErrLimitExceeded = errors.New("limit exceeded")
)

// CodeError represents an error that occurred while parsing or running
// generated code. Line and Column are 1-based; zero means unknown.
type CodeError struct {
	Message string
	Line    int
	Column  int
	Err     error
}

// Error returns the error message, including line and column if available.
func (e *CodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CodeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
func (e *CodeError) Is(target error) bool {
	return target == ErrCodeExecution
}

func errorAt(node Node, format string, args ...any) *CodeError {
	line, col := node.Pos()
	return &CodeError{Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}
