package main

import "time"

// AgentFlags are the options shared by run and serve. Unset flags leave
// the configuration from the file and environment in place.
type AgentFlags struct {
	Backend  string `short:"b" long:"backend" description:"generation backend (endpoint, openai, anthropic, google, vertex)"`
	Model    string `short:"m" long:"model" description:"model name; backend default when empty"`
	APIKey   string `long:"api-key" description:"API key for chat backends; read from the backend's variable when empty"`
	BaseURL  string `long:"base-url" description:"alternative API base URL for chat backends"`
	URL      string `long:"url" description:"text-generation URL for the endpoint backend"`
	Token    string `long:"token" description:"Authorization header value for the endpoint backend"`
	Project  string `long:"project" description:"Google Cloud project for the vertex backend"`
	Location string `long:"location" description:"Google Cloud location for the vertex backend"`

	Template    string   `long:"template" choice:"open_assistant" choice:"chat_completion" description:"prompt template; backend default when empty"`
	MaxTokens   int      `long:"max-tokens" description:"maximum tokens to generate"`
	Temperature *float64 `long:"temperature" description:"sampling temperature"`

	Timeout      time.Duration `short:"t" long:"timeout" description:"deadline for each task"`
	Retries      int           `long:"retries" description:"retry transient generation failures this many times"`
	MaxToolCalls int           `long:"max-tool-calls" description:"maximum tool calls per task (0=unlimited)"`

	AllowHosts  []string `long:"allow-host" description:"host the web tool may fetch from (repeatable; default any)"`
	BasePath    string   `long:"base-path" description:"directory the file tool is confined to"`
	MCPCommands []string `long:"mcp-command" description:"MCP server command whose tools are added (repeatable)"`
}
