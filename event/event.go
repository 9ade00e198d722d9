// Package event describes what happens during an agent run so callers can
// observe generation and tool use without parsing log output.
package event

import (
	"time"

	ai "github.com/spetersoncode/codeagent"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when the agent begins a task.
	RunStart Type = "run_start"

	// RunEnd fires when evaluation completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when generation or evaluation fails.
	RunError Type = "run_error"
)

// Generation events
const (
	// GenerationRetry fires before a failed generation request is retried.
	GenerationRetry Type = "generation_retry"

	// CodeGenerated fires once the generated text has been split into code
	// and explanation.
	CodeGenerated Type = "code_generated"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires before a bound tool runs.
	ToolCallStart Type = "tool_call_start"

	// ToolCallResult fires after a bound tool returns, with its result or error.
	ToolCallResult Type = "tool_call_result"
)

// Event represents an observable occurrence during a run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID correlates all events of one run.
	RunID string

	// Task is the task text, set on RunStart.
	Task string

	// Code and Explanation are set on CodeGenerated.
	Code        string
	Explanation string

	// ToolName is the binding name (tool_i or print) for tool call events.
	ToolName string

	// Args holds the call arguments for ToolCallStart.
	Args *ai.Args

	// Result is the tool result for ToolCallResult, or the final value for RunEnd.
	Result any

	// Attempt is the failed attempt number for GenerationRetry.
	Attempt int

	// Delay is the wait before the next attempt for GenerationRetry.
	Delay time.Duration

	// Duration is the elapsed time for ToolCallResult, RunEnd and RunError.
	Duration time.Duration

	// Error contains the error for RunError, GenerationRetry and failed ToolCallResult events.
	Error error

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel without blocking.
// A nil channel drops the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
