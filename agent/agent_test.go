package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/event"
	"github.com/spetersoncode/codeagent/interp"
	"github.com/spetersoncode/codeagent/retry"
)

// mockGenerator implements ai.CodeGenerator for testing.
type mockGenerator struct {
	responses []string
	errs      []error
	calls     atomic.Int32
	lastTask  string
	lastTools []ai.Tool
}

func (m *mockGenerator) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	i := int(m.calls.Add(1)) - 1
	m.lastTask = task
	m.lastTools = tools
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	return m.responses[min(i, len(m.responses)-1)], nil
}

func respond(text string) *mockGenerator {
	return &mockGenerator{responses: []string{text}}
}

func quiet() []Option {
	return []Option{
		WithOutput(io.Discard),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

func newAgent(gen ai.CodeGenerator, opts ...Option) *Agent {
	return New(gen, append(quiet(), opts...)...)
}

func echoTool(prefix string) ai.Tool {
	return ai.NewTool("returns its `text` input with a prefix", func(ctx context.Context, args ai.Args) (any, error) {
		text, err := args.String("text", 0)
		if err != nil {
			return nil, err
		}
		return prefix + text, nil
	})
}

func drain(ch chan event.Event) []event.Event {
	var events []event.Event
	for {
		select {
		case e := <-ch:
			events = append(events, e)
		default:
			return events
		}
	}
}

func eventTypes(events []event.Event) []event.Type {
	types := make([]event.Type, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestAgent_Perform(t *testing.T) {
	ctx := context.Background()

	t.Run("fenced tool call yields the tool result", func(t *testing.T) {
		gen := respond("\"\"\"py\nresult = tool_0(text=question)\n\"\"\"")
		a := newAgent(gen)

		state := map[string]any{"question": "Quelle heure est-il ?"}
		value, err := a.Perform(ctx, "Translate the question", []ai.Tool{echoTool("en: ")}, state)
		require.NoError(t, err)
		assert.Equal(t, "en: Quelle heure est-il ?", value)
		assert.Equal(t, "en: Quelle heure est-il ?", state["result"])
		assert.Equal(t, "Translate the question", gen.lastTask)
		assert.Len(t, gen.lastTools, 1)
	})

	t.Run("unfenced response is all code", func(t *testing.T) {
		a := newAgent(respond("a = tool_0('x')\nb = tool_1(a)"))
		value, err := a.Perform(ctx, "chain", []ai.Tool{echoTool("1"), echoTool("2")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "21x", value)
	})

	t.Run("empty code yields nil", func(t *testing.T) {
		a := newAgent(respond("```\n```\nNothing to do."))
		value, err := a.Perform(ctx, "nothing", nil, nil)
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestAgent_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("display and printed output", func(t *testing.T) {
		gen := respond("```py\nanswer = tool_0(text='hi')\nprint(answer)\n```\nI called the tool.\n")
		var out bytes.Buffer
		a := New(gen, WithOutput(&out), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

		result, err := a.Run(ctx, "greet", []ai.Tool{echoTool(">")}, nil)
		require.NoError(t, err)

		assert.Equal(t, "answer = tool_0(text='hi')\nprint(answer)", result.Code)
		assert.Equal(t, "I called the tool.", result.Explanation)
		assert.Equal(t, ">hi\n", result.Output)
		assert.Nil(t, result.Value)
		assert.Greater(t, result.Duration, time.Duration(0))
		_, err = uuid.Parse(result.RunID)
		assert.NoError(t, err)

		expected := "==Code generated by the agent==\n" +
			"answer = tool_0(text='hi')\nprint(answer)\n\n\n" +
			"==Additional explanation from the agent==\n" +
			"I called the tool.\n\n\n" +
			"==Result==\n" +
			">hi\n"
		assert.Equal(t, expected, out.String())
	})

	t.Run("no explanation section without explanation", func(t *testing.T) {
		var out bytes.Buffer
		a := New(respond("x = 1"), WithOutput(&out))
		_, err := a.Run(ctx, "one", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "==Code generated by the agent==\nx = 1\n\n\n==Result==\n", out.String())
	})

	t.Run("generation error is wrapped and not retried", func(t *testing.T) {
		cause := ai.NewTransientError("service unavailable", 503, nil)
		gen := &mockGenerator{errs: []error{cause}}
		a := newAgent(gen)

		result, err := a.Run(ctx, "task", nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "agent: generate code")
		assert.True(t, ai.IsTransient(err))
		assert.Equal(t, int32(1), gen.calls.Load())
		assert.Empty(t, result.Code)
	})

	t.Run("tool errors propagate unchanged", func(t *testing.T) {
		sentinel := errors.New("translator offline")
		failing := ai.NewTool("fails", func(ctx context.Context, args ai.Args) (any, error) {
			return nil, sentinel
		})
		a := newAgent(respond("print('before')\nx = tool_0()"))

		result, err := a.Run(ctx, "task", []ai.Tool{failing}, nil)
		assert.Same(t, sentinel, err)
		assert.Equal(t, "before\n", result.Output)
	})

	t.Run("evaluator errors propagate", func(t *testing.T) {
		a := newAgent(respond("import os"))
		_, err := a.Run(ctx, "task", nil, nil)
		assert.ErrorIs(t, err, interp.ErrCodeExecution)

		var ce *interp.CodeError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 1, ce.Line)
	})

	t.Run("only provided tools are callable", func(t *testing.T) {
		a := newAgent(respond("tool_1(text='x')"))
		_, err := a.Run(ctx, "task", []ai.Tool{echoTool("")}, nil)
		assert.ErrorIs(t, err, interp.ErrCodeExecution)
		assert.ErrorContains(t, err, "tool_1")
	})
}

func TestAgent_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("retry", func(t *testing.T) {
		gen := &mockGenerator{
			errs: []error{
				ai.NewTransientError("overloaded", 529, nil),
				ai.NewTransientError("overloaded", 529, nil),
			},
			responses: []string{"x = 42"},
		}
		events := event.NewChannel()
		a := newAgent(gen, WithEvents(events), WithRetry(retry.Config{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   1,
		}))

		value, err := a.Perform(ctx, "task", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(42), value)
		assert.Equal(t, int32(3), gen.calls.Load())

		retries := slices.DeleteFunc(drain(events), func(e event.Event) bool {
			return e.Type != event.GenerationRetry
		})
		require.Len(t, retries, 2)
		assert.Equal(t, 1, retries[0].Attempt)
		assert.Equal(t, 2, retries[1].Attempt)
		assert.Equal(t, time.Millisecond, retries[0].Delay)
	})

	t.Run("retry stops on permanent errors", func(t *testing.T) {
		gen := &mockGenerator{errs: []error{ai.NewPermanentError("bad key", 401, nil)}}
		a := newAgent(gen, WithRetry(retry.DefaultConfig()))
		_, err := a.Perform(ctx, "task", nil, nil)
		assert.True(t, ai.IsPermanent(err))
		assert.Equal(t, int32(1), gen.calls.Load())
	})

	t.Run("max tool calls", func(t *testing.T) {
		a := newAgent(respond("a = tool_0('x')\nb = tool_0('y')"), WithMaxToolCalls(1))
		_, err := a.Perform(ctx, "task", []ai.Tool{echoTool("")}, nil)
		assert.ErrorIs(t, err, interp.ErrLimitExceeded)
	})

	t.Run("custom evaluator receives bindings", func(t *testing.T) {
		eval := &recordingEvaluator{value: "done"}
		a := newAgent(respond("```\nwhatever\n```"), WithEvaluator(eval))

		value, err := a.Perform(ctx, "task", []ai.Tool{echoTool(""), echoTool("")}, map[string]any{"k": 1})
		require.NoError(t, err)
		assert.Equal(t, "done", value)
		assert.Equal(t, "whatever", eval.code)
		assert.Equal(t, []string{"print", "tool_0", "tool_1"}, eval.names)
		assert.Equal(t, map[string]any{"k": 1}, eval.state)
	})

	t.Run("timeout", func(t *testing.T) {
		blocking := generatorFunc(func(ctx context.Context, task string, tools []ai.Tool) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		a := newAgent(blocking, WithTimeout(10*time.Millisecond))
		_, err := a.Perform(ctx, "task", nil, nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("approval", func(t *testing.T) {
		var asked []string
		approver := func(ctx context.Context, name string, args ai.Args) (bool, string) {
			asked = append(asked, name)
			return name != "tool_1", "not allowed"
		}

		a := newAgent(respond("a = tool_0(text='x')\nb = tool_1(text=a)"), WithApprover(approver))
		_, err := a.Perform(ctx, "task", []ai.Tool{echoTool("0"), echoTool("1")}, nil)

		var rejected *ErrToolRejected
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "tool_1", rejected.Tool)
		assert.Equal(t, "agent: call to tool_1 was rejected: not allowed", err.Error())
		assert.Equal(t, []string{"tool_0", "tool_1"}, asked)
	})

	t.Run("approval required for named tools only", func(t *testing.T) {
		var asked []string
		approver := func(ctx context.Context, name string, args ai.Args) (bool, string) {
			asked = append(asked, name)
			return true, ""
		}

		a := newAgent(respond("a = tool_0(text='x')\nb = tool_1(text=a)"),
			WithApprover(approver), WithApprovalRequired("tool_1"))
		value, err := a.Perform(ctx, "task", []ai.Tool{echoTool("0"), echoTool("1")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "10x", value)
		assert.Equal(t, []string{"tool_1"}, asked)
	})
}

func TestAgent_Events(t *testing.T) {
	events := event.NewChannel()
	a := newAgent(respond("```\nr = tool_0(text='a')\n```\nDone."), WithEvents(events))

	result, err := a.Run(context.Background(), "task", []ai.Tool{echoTool("+")}, nil)
	require.NoError(t, err)

	got := drain(events)
	assert.Equal(t, []event.Type{
		event.RunStart,
		event.CodeGenerated,
		event.ToolCallStart,
		event.ToolCallResult,
		event.RunEnd,
	}, eventTypes(got))

	for _, e := range got {
		assert.Equal(t, result.RunID, e.RunID)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Equal(t, "task", got[0].Task)
	assert.Equal(t, "Done.", got[1].Explanation)
	assert.Equal(t, "tool_0", got[2].ToolName)
	require.NotNil(t, got[2].Args)
	assert.Equal(t, "a", got[2].Args.Keyword["text"])
	assert.Equal(t, "+a", got[3].Result)
	assert.Equal(t, "+a", got[4].Result)

	t.Run("failure", func(t *testing.T) {
		events := event.NewChannel()
		a := newAgent(respond("x = 1 +"), WithEvents(events))
		_, err := a.Run(context.Background(), "task", nil, nil)
		require.Error(t, err)

		got := drain(events)
		require.NotEmpty(t, got)
		last := got[len(got)-1]
		assert.Equal(t, event.RunError, last.Type)
		assert.Equal(t, err, last.Error)
	})
}

func TestNewTool(t *testing.T) {
	ctx := context.Background()

	sub := newAgent(respond("out = tool_0(text=topic)"))
	delegate := NewTool(sub, []ai.Tool{echoTool("notes on ")}, WithToolState(map[string]any{"topic": "default"}))
	assert.True(t, strings.Contains(delegate.Description(), "`task`"))

	lead := newAgent(respond("summary = tool_0(task='research', state={'topic': 'tides'})"))
	value, err := lead.Perform(ctx, "summarize", []ai.Tool{delegate}, nil)
	require.NoError(t, err)
	assert.Equal(t, "notes on tides", value)

	t.Run("defaults from tool state", func(t *testing.T) {
		value, err := delegate.Call(ctx, ai.Args{Positional: []any{"research"}})
		require.NoError(t, err)
		assert.Equal(t, "notes on default", value)
	})

	t.Run("task is required", func(t *testing.T) {
		_, err := delegate.Call(ctx, ai.Args{Keyword: map[string]any{"state": map[string]any{}}})
		assert.ErrorContains(t, err, "task is required")
	})
}

type generatorFunc func(ctx context.Context, task string, tools []ai.Tool) (string, error)

func (f generatorFunc) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	return f(ctx, task, tools)
}

type recordingEvaluator struct {
	value any
	code  string
	names []string
	state map[string]any
}

func (e *recordingEvaluator) Evaluate(ctx context.Context, code string, bindings map[string]ai.Callable, state map[string]any) (any, error) {
	e.code = code
	e.state = state
	for name := range bindings {
		e.names = append(e.names, name)
	}
	slices.Sort(e.names)
	return e.value, nil
}
