package tool

import "fmt"

// ErrInvalidArguments is returned when a call's arguments cannot be decoded
// into the tool's input type or fail its validation.
type ErrInvalidArguments struct {
	Err error
}

func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: invalid arguments: %v", e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}

// ErrHostNotAllowed is returned when an HTTP tool is asked to reach a host
// outside its allow list or inside its block list.
type ErrHostNotAllowed struct {
	Host   string
	Reason string
}

func (e *ErrHostNotAllowed) Error() string {
	return fmt.Sprintf("tool: host %q %s", e.Host, e.Reason)
}

// ErrPathNotAllowed is returned when a file tool is asked to read outside
// its base path or a file with a disallowed extension.
type ErrPathNotAllowed struct {
	Path   string
	Reason string
}

func (e *ErrPathNotAllowed) Error() string {
	return fmt.Sprintf("tool: path %q %s", e.Path, e.Reason)
}
