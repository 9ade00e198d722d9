package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/mcp"
	"github.com/spetersoncode/codeagent/prompt"
	"github.com/spetersoncode/codeagent/tool"
)

// toolbox holds the tools bound for a task and the MCP connections behind
// them.
type toolbox struct {
	set     *tool.Set
	remotes []*mcp.Remote
}

// buildTools returns the built-in tools followed by the tools of every
// configured MCP server.
func buildTools(ctx context.Context, cfg *Config, logger *slog.Logger) (*toolbox, error) {
	var httpOpts []tool.HTTPToolOption
	if len(cfg.AllowHosts) > 0 {
		httpOpts = append(httpOpts, tool.WithAllowedHosts(cfg.AllowHosts...))
	}
	var fileOpts []tool.FileToolOption
	if cfg.BasePath != "" {
		fileOpts = append(fileOpts, tool.WithBasePath(cfg.BasePath))
	}

	tb := &toolbox{set: tool.NewSet(tool.HTTPGet(httpOpts...), tool.ReadFile(fileOpts...))}

	for _, command := range cfg.MCPCommands {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			continue
		}

		remote, err := mcp.ConnectStdio(ctx, fields[0], nil, fields[1:]...)
		if err != nil {
			tb.Close()
			return nil, fmt.Errorf("connect %q: %w", command, err)
		}
		tb.remotes = append(tb.remotes, remote)

		first := tb.set.Len()
		tb.set.Add(remote.Tools()...)
		logger.Info("loaded MCP tools", "command", fields[0], "count", remote.Len(), "first", prompt.ToolName(first))
	}
	return tb, nil
}

// Tools returns the tools in binding order.
func (tb *toolbox) Tools() []ai.Tool {
	return tb.set.Tools()
}

// Close shuts down every MCP connection.
func (tb *toolbox) Close() error {
	var errs []error
	for _, r := range tb.remotes {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
