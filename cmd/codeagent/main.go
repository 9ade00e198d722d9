// Command codeagent performs tasks by having a language model write code
// that calls tools.
//
// Usage:
//
//	codeagent run --backend openai --state city=Paris "What is the weather in city?"
//	codeagent serve --backend anthropic --mcp-command ./weather-server
//
// Configuration is read from flags, then an optional YAML file (-f), then
// CODEAGENT_* environment variables (a .env file is loaded if present).
// Earlier sources win.
//
// Built-in tools are always bound first: tool_0 fetches web pages and
// tool_1 reads local files. Tools from MCP servers started with
// --mcp-command follow in order.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

// Options is the root command that groups sub-commands. The struct tags
// are interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"YAML config file"`
	Verbose bool   `short:"v" long:"verbose" description:"log debug output and run events to stderr"`

	Run   RunCmd   `command:"run" description:"Perform a task and print the result"`
	Serve ServeCmd `command:"serve" description:"Serve the agent as an MCP tool over stdio"`
}

var options Options

func main() {
	godotenv.Load() // Load .env file if present

	parser := flags.NewParser(&options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
