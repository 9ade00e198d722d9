package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/codeblock"
	"github.com/spetersoncode/codeagent/event"
	"github.com/spetersoncode/codeagent/interp"
	"github.com/spetersoncode/codeagent/prompt"
	"github.com/spetersoncode/codeagent/retry"
)

// Display headers written before evaluation.
const (
	CodeHeader        = "==Code generated by the agent=="
	ExplanationHeader = "==Additional explanation from the agent=="
	ResultHeader      = "==Result=="
)

// PrintBinding is the name under which print is bound.
const PrintBinding = "print"

// Agent generates and runs code for tasks.
// An Agent is safe for concurrent use as long as its output writer is.
type Agent struct {
	generator ai.CodeGenerator
	evaluator Evaluator
	output    io.Writer
	logger    *slog.Logger
	events    chan<- event.Event
	retry     *retry.Config
	timeout   time.Duration

	maxToolCalls     int
	approver         ApproverFunc
	approvalRequired []string
}

// Result is the record of one run.
type Result struct {
	// RunID correlates the run's events and log lines.
	RunID string
	// Code is the cleaned code that was evaluated.
	Code string
	// Explanation is the prose the model wrote after the code, if any.
	Explanation string
	// Output is everything the code printed.
	Output string
	// Value is the value of the last executed statement.
	Value any
	// Duration is the wall time of the run.
	Duration time.Duration
}

// New creates an Agent that uses generator to write code.
func New(generator ai.CodeGenerator, opts ...Option) *Agent {
	a := &Agent{
		generator: generator,
		output:    os.Stdout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.evaluator == nil {
		a.evaluator = interp.New(interp.WithMaxToolCalls(a.maxToolCalls))
	}
	return a
}

// Perform runs the task and returns the value the generated code produced.
// state holds variables the code can read; its assignments are written
// back into it.
func (a *Agent) Perform(ctx context.Context, task string, tools []ai.Tool, state map[string]any) (any, error) {
	result, err := a.Run(ctx, task, tools, state)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Run generates code for the task, displays it and evaluates it.
//
// Generation failures are wrapped with context. Errors from the evaluator
// and from tools are returned unchanged. On failure the returned Result
// holds whatever was produced before the error.
func (a *Agent) Run(ctx context.Context, task string, tools []ai.Tool, state map[string]any) (*Result, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	log := a.logger.With("run_id", result.RunID)

	fail := func(err error) (*Result, error) {
		result.Duration = time.Since(start)
		log.Error("run failed", "error", err, "duration", result.Duration)
		event.Emit(a.events, event.Event{
			Type:     event.RunError,
			RunID:    result.RunID,
			Error:    err,
			Duration: result.Duration,
		})
		return result, err
	}

	event.Emit(a.events, event.Event{Type: event.RunStart, RunID: result.RunID, Task: task})
	log.Info("run started", "tools", len(tools))

	text, err := a.generate(ctx, result.RunID, task, tools)
	if err != nil {
		return fail(fmt.Errorf("agent: generate code: %w", err))
	}

	block := codeblock.Extract(text)
	result.Code = block.Code
	result.Explanation = block.Explanation
	event.Emit(a.events, event.Event{
		Type:        event.CodeGenerated,
		RunID:       result.RunID,
		Code:        block.Code,
		Explanation: block.Explanation,
	})
	log.Debug("code generated", "fenced", block.Fenced, "code", block.Code)

	if err := a.display(block); err != nil {
		return fail(fmt.Errorf("agent: display: %w", err))
	}

	var printed bytes.Buffer
	bindings := a.bindings(result.RunID, tools, io.MultiWriter(a.output, &printed))

	value, err := a.evaluator.Evaluate(ctx, block.Code, bindings, state)
	result.Output = printed.String()
	if err != nil {
		return fail(err)
	}

	result.Value = value
	result.Duration = time.Since(start)
	event.Emit(a.events, event.Event{
		Type:     event.RunEnd,
		RunID:    result.RunID,
		Result:   value,
		Duration: result.Duration,
	})
	log.Info("run completed", "duration", result.Duration)
	return result, nil
}

func (a *Agent) generate(ctx context.Context, runID, task string, tools []ai.Tool) (string, error) {
	call := func(ctx context.Context) (string, error) {
		return a.generator.GenerateCode(ctx, task, tools)
	}
	if a.retry == nil {
		return call(ctx)
	}

	notify := func(e retry.Event) {
		if e.Type != retry.EventRetrying {
			return
		}
		a.logger.Warn("retrying code generation",
			"run_id", runID,
			"attempt", e.Attempt,
			"max_attempts", e.MaxAttempts,
			"delay", e.Delay,
			"error", e.Error,
		)
		event.Emit(a.events, event.Event{
			Type:    event.GenerationRetry,
			RunID:   runID,
			Attempt: e.Attempt,
			Delay:   e.Delay,
			Error:   e.Error,
		})
	}
	return retry.DoNotify(ctx, *a.retry, notify, call)
}

func (a *Agent) display(block codeblock.Block) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n%s\n\n\n", CodeHeader, block.Code)
	if block.HasExplanation() {
		fmt.Fprintf(&b, "%s\n%s\n\n\n", ExplanationHeader, block.Explanation)
	}
	fmt.Fprintf(&b, "%s\n", ResultHeader)
	_, err := a.output.Write(b.Bytes())
	return err
}

// bindings returns print plus one tool_i per tool, each instrumented with
// approval, events and logging.
func (a *Agent) bindings(runID string, tools []ai.Tool, w io.Writer) map[string]ai.Callable {
	b := make(map[string]ai.Callable, len(tools)+1)
	b[PrintBinding] = interp.Print(w)
	for i, t := range tools {
		name := prompt.ToolName(i)
		b[name] = a.instrument(runID, name, t.Call)
	}
	return b
}

func (a *Agent) instrument(runID, name string, fn ai.Callable) ai.Callable {
	return func(ctx context.Context, args ai.Args) (any, error) {
		if a.requiresApproval(name) {
			if approved, reason := a.approver(ctx, name, args); !approved {
				a.logger.Info("tool call rejected", "run_id", runID, "tool", name, "reason", reason)
				return nil, &ErrToolRejected{Tool: name, Reason: reason}
			}
		}

		event.Emit(a.events, event.Event{Type: event.ToolCallStart, RunID: runID, ToolName: name, Args: &args})
		a.logger.Debug("calling tool", "run_id", runID, "tool", name, "args", args.Len())

		start := time.Now()
		value, err := fn(ctx, args)
		elapsed := time.Since(start)

		event.Emit(a.events, event.Event{
			Type:     event.ToolCallResult,
			RunID:    runID,
			ToolName: name,
			Result:   value,
			Error:    err,
			Duration: elapsed,
		})
		if err != nil {
			a.logger.Debug("tool failed", "run_id", runID, "tool", name, "error", err, "duration", elapsed)
		}
		return value, err
	}
}

func (a *Agent) requiresApproval(name string) bool {
	if a.approver == nil {
		return false
	}
	if len(a.approvalRequired) == 0 {
		return true
	}
	return slices.Contains(a.approvalRequired, name)
}
