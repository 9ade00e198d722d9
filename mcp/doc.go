// Package mcp connects agents to the Model Context Protocol.
//
// The integration works in both directions:
//
//   - Server: [NewServer] exposes an agent as an MCP tool named
//     perform_task, so MCP clients can hand it tasks.
//   - Client: [Remote] connects to an MCP server and adapts its tools
//     into codeagent tools that generated code can call.
//
// # Serving an Agent
//
//	a := agent.New(gen, agent.WithOutput(os.Stderr))
//	if err := mcp.ServeStdio(ctx, a, tools); err != nil {
//	    log.Fatal(err)
//	}
//
// The agent's output must not be os.Stdout when serving over stdio, since
// stdout carries the protocol.
//
// # Consuming MCP Servers
//
//	remote, err := mcp.ConnectStdio(ctx, "./weather-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	answer, err := a.Perform(ctx, "What should I wear in Paris today?", remote.Tools(), nil)
package mcp
