package tool

import (
	"slices"
	"sync"

	"github.com/samber/lo"
	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/prompt"
)

// Set is an ordered, append-only collection of tools. A tool's position
// in the set is its index in the prompt, so the first tool added is
// exposed as tool_0. It is safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	tools []ai.Tool
}

// NewSet creates a set holding the given tools in order.
func NewSet(tools ...ai.Tool) *Set {
	return (&Set{}).Add(tools...)
}

// Add appends tools to the set. Returns the set for chaining.
func (s *Set) Add(tools ...ai.Tool) *Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = append(s.tools, tools...)
	return s
}

// Tools returns a copy of the tools in order.
func (s *Set) Tools() []ai.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tools)
}

// Len returns the number of tools.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

// Names returns the name each tool is bound to, in order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Times(len(s.tools), prompt.ToolName)
}
