package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/agent"
	"github.com/spetersoncode/codeagent/interp"
	"github.com/spetersoncode/codeagent/prompt"
)

// PerformTool is the name of the MCP tool that runs a task.
const PerformTool = "perform_task"

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name        string
	version     string
	exposeTools bool
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithExposedTools also registers each tool directly under its positional
// name (tool_0, tool_1, ...), so clients can call them without the agent.
func WithExposedTools() ServerOption {
	return func(c *serverConfig) {
		c.exposeTools = true
	}
}

// NewServer creates an MCP server with a perform_task tool that runs tasks
// on a using tools. The tool takes a required `task` string and an optional
// `state` object. Its text result is the final value; run failures are
// reported as tool errors.
//
// Example:
//
//	s := mcp.NewServer(a, tools,
//	    mcp.WithName("translator"),
//	    mcp.WithVersion("1.0.0"),
//	)
func NewServer(a *agent.Agent, tools []ai.Tool, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "codeagent",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(mcp.NewTool(PerformTool,
		mcp.WithDescription(performDescription(tools)),
		mcp.WithString("task", mcp.Required(), mcp.Description("The task to perform, in plain language")),
		mcp.WithObject("state", mcp.Description("Variables the generated code can read")),
	), performHandler(a, tools))

	if cfg.exposeTools {
		for i, t := range tools {
			s.AddTool(mcp.NewTool(prompt.ToolName(i),
				mcp.WithDescription(fmt.Sprintf("A function that %s", t.Description())),
			), toolHandler(t))
		}
	}

	return s
}

func performDescription(tools []ai.Tool) string {
	desc := "Performs a task by writing and running code."
	if len(tools) > 0 {
		desc += " The code can call these functions:\n" + strings.Join(prompt.Describe(tools), "\n")
	}
	return desc
}

func performHandler(a *agent.Agent, tools []ai.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task, err := req.RequireString("task")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var state map[string]any
		if raw, ok := req.GetArguments()["state"]; ok && raw != nil {
			state, ok = raw.(map[string]any)
			if !ok {
				return mcp.NewToolResultError("state must be an object"), nil
			}
		}

		value, err := a.Perform(ctx, task, tools, state)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(interp.Str(value)), nil
	}
}

func toolHandler(t ai.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		value, err := t.Call(ctx, ai.Args{Keyword: req.GetArguments()})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(interp.Str(value)), nil
	}
}

// ServeStdio serves a over stdin and stdout until ctx is done or stdin is
// closed.
func ServeStdio(ctx context.Context, a *agent.Agent, tools []ai.Tool, opts ...ServerOption) error {
	return Serve(ctx, os.Stdin, os.Stdout, a, tools, opts...)
}

// Serve serves a over the given reader and writer using the stdio
// transport's framing.
func Serve(ctx context.Context, in io.Reader, out io.Writer, a *agent.Agent, tools []ai.Tool, opts ...ServerOption) error {
	return server.NewStdioServer(NewServer(a, tools, opts...)).Listen(ctx, in, out)
}
