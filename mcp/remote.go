package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"

	ai "github.com/spetersoncode/codeagent"
)

// Caller is the part of an MCP client that remote tools use.
// *client.Client implements it.
type Caller interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Remote provides the tools of a connected MCP server as codeagent tools.
//
// Remote is safe for concurrent use. The tool list is cached locally and
// can be refreshed with [Remote.Refresh].
type Remote struct {
	client *client.Client
	mu     sync.RWMutex
	tools  []mcp.Tool
}

// ConnectStdio starts an MCP server subprocess and connects to it over
// stdio. The command is the path to the server executable; env entries
// have the form KEY=value.
//
// Example:
//
//	remote, err := mcp.ConnectStdio(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
func ConnectStdio(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: start %s: %w", command, err)
	}
	return NewRemote(ctx, c)
}

// NewRemote initializes a session on c and fetches its tools. The client
// is started if needed and closed if initialization fails.
func NewRemote(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "codeagent",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize session: %w", err)
	}

	r := &Remote{client: c}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Refresh fetches the current list of tools from the MCP server.
func (r *Remote) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("mcp: list tools: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = result.Tools
	return nil
}

// Tools returns the server's tools in the order the server listed them.
func (r *Remote) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(r.tools, func(t mcp.Tool, _ int) ai.Tool {
		return FromMCPTool(r.client, t)
	})
}

// Names returns the MCP names of the server's tools.
func (r *Remote) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(r.tools, func(t mcp.Tool, _ int) string { return t.Name })
}

// Len returns the number of available tools.
func (r *Remote) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// RemoteTools lists the tools of an initialized MCP session and adapts
// each one.
func RemoteTools(ctx context.Context, c Caller) ([]ai.Tool, error) {
	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}
	return lo.Map(result.Tools, func(t mcp.Tool, _ int) ai.Tool {
		return FromMCPTool(c, t)
	}), nil
}

// FromMCPTool adapts an MCP tool into a codeagent tool that calls it
// through c.
//
// Keyword arguments are sent as the MCP arguments. Positional arguments
// are assigned to the schema's required parameters in order, then to the
// remaining parameters in name order.
func FromMCPTool(c Caller, t mcp.Tool) ai.Tool {
	params := parameterOrder(t.InputSchema)

	return ai.NewTool(describe(t, params), func(ctx context.Context, args ai.Args) (any, error) {
		arguments, err := toArguments(t.Name, params, args)
		if err != nil {
			return nil, err
		}

		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      t.Name,
				Arguments: arguments,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("mcp: call %s: %w", t.Name, err)
		}
		return resultValue(t.Name, result)
	})
}

func parameterOrder(schema mcp.ToolInputSchema) []string {
	rest := lo.Without(lo.Keys(schema.Properties), schema.Required...)
	slices.Sort(rest)
	return append(slices.Clone(schema.Required), rest...)
}

func describe(t mcp.Tool, params []string) string {
	desc := fmt.Sprintf("calls the remote tool %q", t.Name)
	if t.Description != "" {
		desc += ": " + strings.TrimSuffix(t.Description, ".")
	}
	if len(params) > 0 {
		quoted := lo.Map(params, func(p string, _ int) string { return "`" + p + "`" })
		desc += fmt.Sprintf(". Its inputs are %s", joinList(quoted))
	}
	return desc + ". It returns text"
}

func joinList(items []string) string {
	if len(items) < 2 {
		return strings.Join(items, "")
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func toArguments(name string, params []string, args ai.Args) (map[string]any, error) {
	if len(args.Positional) > len(params) {
		return nil, fmt.Errorf("mcp: %s takes %d positional arguments but %d were given", name, len(params), len(args.Positional))
	}

	arguments := make(map[string]any, args.Len())
	for i, v := range args.Positional {
		arguments[params[i]] = v
	}
	for k, v := range args.Keyword {
		if _, dup := arguments[k]; dup {
			return nil, fmt.Errorf("mcp: %s got multiple values for argument %q", name, k)
		}
		arguments[k] = v
	}
	return arguments, nil
}
