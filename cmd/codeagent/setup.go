package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spetersoncode/codeagent/agent"
	"github.com/spetersoncode/codeagent/client"
	"github.com/spetersoncode/codeagent/event"
)

// session is everything a command needs to perform tasks.
type session struct {
	cfg    *Config
	logger *slog.Logger
	agent  *agent.Agent
	tools  *toolbox
	events chan event.Event
}

// newSession loads the configuration, applies flags and builds the agent
// and its tools. The agent writes its display to output.
func newSession(ctx context.Context, flags *AgentFlags, state map[string]string, output io.Writer) (*session, error) {
	cfg, err := LoadConfig(options.Config)
	if err != nil {
		return nil, err
	}
	cfg.Apply(flags)
	cfg.MergeState(state)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := setupLogger(cfg, options.Verbose)

	gen, err := client.New(ctx, cfg.ClientConfig())
	if err != nil {
		return nil, err
	}
	logger.Debug("backend ready", "backend", gen.Backend(), "model", cfg.Model)

	tools, err := buildTools(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger, tools: tools}

	opts := []agent.Option{
		agent.WithOutput(output),
		agent.WithLogger(logger),
		agent.WithTimeout(cfg.Timeout),
		agent.WithMaxToolCalls(cfg.MaxToolCalls),
	}
	if r := cfg.RetryConfig(); r != nil {
		opts = append(opts, agent.WithRetry(*r))
	}
	if options.Verbose {
		s.events = event.NewChannel()
		opts = append(opts, agent.WithEvents(s.events))
		go logEvents(ctx, logger, s.events)
	}

	s.agent = agent.New(gen, opts...)
	return s, nil
}

// Close releases the session's MCP connections and stops event logging.
func (s *session) Close() error {
	if s.events != nil {
		close(s.events)
	}
	return s.tools.Close()
}
