package agent

import (
	"context"
	"io"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/event"
	"github.com/spetersoncode/codeagent/retry"
)

// Evaluator executes cleaned code against a set of bindings.
// *interp.Interpreter is the default implementation.
type Evaluator interface {
	Evaluate(ctx context.Context, code string, bindings map[string]ai.Callable, state map[string]any) (any, error)
}

// ApproverFunc is called before a tool binding runs.
// It returns true to approve the call, or false with a reason to reject it.
type ApproverFunc func(ctx context.Context, name string, args ai.Args) (approved bool, reason string)

// Option configures an Agent.
type Option func(*Agent)

// WithOutput sets where the generated code, explanation and printed output
// are written. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Agent) {
		a.output = w
	}
}

// WithLogger sets the structured logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

// WithEvaluator replaces the built-in interpreter.
func WithEvaluator(e Evaluator) Option {
	return func(a *Agent) {
		a.evaluator = e
	}
}

// WithMaxToolCalls bounds the number of binding calls generated code may
// make in one run, print included. Ignored when WithEvaluator is used.
func WithMaxToolCalls(n int) Option {
	return func(a *Agent) {
		a.maxToolCalls = n
	}
}

// WithEvents sends run events to ch. Sends never block; events are dropped
// when ch is full.
func WithEvents(ch chan<- event.Event) Option {
	return func(a *Agent) {
		a.events = ch
	}
}

// WithRetry retries transient generation failures. Without it a failed
// request is returned immediately.
func WithRetry(cfg retry.Config) Option {
	return func(a *Agent) {
		a.retry = &cfg
	}
}

// WithTimeout sets a deadline for each run, covering generation and
// evaluation.
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) {
		a.timeout = d
	}
}

// WithApprover enables human-in-the-loop approval for tool calls.
func WithApprover(fn ApproverFunc) Option {
	return func(a *Agent) {
		a.approver = fn
	}
}

// WithApprovalRequired limits approval to the named tool bindings (tool_0,
// tool_1, ...). If not called but WithApprover is used, every tool call
// requires approval. print never does.
func WithApprovalRequired(names ...string) Option {
	return func(a *Agent) {
		a.approvalRequired = names
	}
}
