package codeagent

import (
	"context"
	"fmt"
)

// Tool is a capability exposed to generated code.
//
// Tools are identified by position: the tool at index i is presented to the
// model as tool_i and bound under that name when the code is executed.
type Tool interface {
	// Description completes the sentence "tool_i is a function that ...".
	// It should name the inputs the tool expects and what it returns.
	Description() string
	// Call invokes the tool with the arguments supplied by generated code.
	Call(ctx context.Context, args Args) (any, error)
}

// Callable is a function bound into the execution environment.
type Callable func(ctx context.Context, args Args) (any, error)

// Args holds the arguments of a call made by generated code.
type Args struct {
	// Positional contains arguments passed by position, in order.
	Positional []any
	// Keyword contains arguments passed by name.
	Keyword map[string]any
}

// Len returns the total number of arguments.
func (a Args) Len() int {
	return len(a.Positional) + len(a.Keyword)
}

// Lookup returns the argument passed under name, or at position pos when no
// keyword argument with that name exists. Pass a negative pos to only
// consider keyword arguments.
func (a Args) Lookup(name string, pos int) (any, bool) {
	if v, ok := a.Keyword[name]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.Positional) {
		return a.Positional[pos], true
	}
	return nil, false
}

// String returns the named or positional argument as a string.
func (a Args) String(name string, pos int) (string, error) {
	v, ok := a.Lookup(name, pos)
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", name, v)
	}
	return s, nil
}

// funcTool adapts a description and a Callable into a Tool.
type funcTool struct {
	description string
	fn          Callable
}

// NewTool creates a Tool from a description and a function.
func NewTool(description string, fn Callable) Tool {
	return &funcTool{description: description, fn: fn}
}

func (t *funcTool) Description() string { return t.description }

func (t *funcTool) Call(ctx context.Context, args Args) (any, error) {
	return t.fn(ctx, args)
}

// CodeGenerator produces code text that composes tools to solve a task.
type CodeGenerator interface {
	// GenerateCode renders a prompt for the task and tools, sends it to the
	// backing model and returns the raw generated text.
	GenerateCode(ctx context.Context, task string, tools []Tool) (string, error)
}
