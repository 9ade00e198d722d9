package agent

import (
	"context"
	"errors"
	"maps"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/tool"
)

// ToolArgs is the argument type of an agent tool.
type ToolArgs struct {
	Task  string         `mapstructure:"task"`
	State map[string]any `mapstructure:"state"`
}

// Validate implements tool.Validator.
func (a ToolArgs) Validate() error {
	if a.Task == "" {
		return errors.New("task is required")
	}
	return nil
}

// ToolOption configures an agent tool.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description string
	state       map[string]any
}

// WithToolDescription sets a custom description for the agent tool.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) {
		c.description = desc
	}
}

// WithToolState sets variables every delegated run starts with. Values
// passed in the call's state argument take precedence.
func WithToolState(state map[string]any) ToolOption {
	return func(c *toolConfig) {
		c.state = state
	}
}

// NewTool wraps an agent and its tools as a single tool, so one agent can
// delegate a subtask to another. The tool takes a `task` and an optional
// `state` dict and returns the value the delegated code produced.
//
// Example:
//
//	research := agent.New(gen, agent.WithOutput(io.Discard))
//	lead.Perform(ctx, "Summarize what is known about the topic.",
//	    []codeagent.Tool{agent.NewTool(research, []codeagent.Tool{search, fetch})},
//	    map[string]any{"topic": "tides"},
//	)
func NewTool(a *Agent, tools []ai.Tool, opts ...ToolOption) ai.Tool {
	cfg := &toolConfig{
		description: "solves the task described in `task` by writing and running code; " +
			"an optional `state` dict provides its input variables. It returns the result",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return tool.Func(cfg.description, func(ctx context.Context, args ToolArgs) (any, error) {
		state := maps.Clone(cfg.state)
		if state == nil {
			state = make(map[string]any, len(args.State))
		}
		maps.Copy(state, args.State)
		return a.Perform(ctx, args.Task, tools, state)
	})
}
