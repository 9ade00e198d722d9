package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spetersoncode/codeagent/mcp"
)

// ServeCmd serves the agent over MCP stdio.
type ServeCmd struct {
	AgentFlags `group:"Agent Options"`

	Name        string `long:"name" default:"codeagent" description:"server name reported to MCP clients"`
	ExposeTools bool   `long:"expose-tools" description:"also expose each tool directly as tool_i"`
}

// Execute serves until stdin closes or the process is interrupted.
func (c *ServeCmd) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol
	s, err := newSession(ctx, &c.AgentFlags, nil, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := []mcp.ServerOption{mcp.WithName(c.Name), mcp.WithVersion(version)}
	if c.ExposeTools {
		opts = append(opts, mcp.WithExposedTools())
	}

	s.logger.Info("serving over stdio", "tools", s.tools.set.Len())
	return mcp.ServeStdio(ctx, s.agent, s.tools.Tools(), opts...)
}
