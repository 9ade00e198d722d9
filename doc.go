// Package codeagent lets a language model solve a task by writing a few lines
// of code that call the tools you provide.
//
// The flow has three steps:
//
//   - A prompt is rendered from the task and a description of each tool
//     (see [github.com/spetersoncode/codeagent/prompt]).
//   - A [CodeGenerator] sends the prompt to a model and returns its text.
//   - The code is cut out of the response (see
//     [github.com/spetersoncode/codeagent/codeblock]) and executed by a
//     restricted evaluator (see [github.com/spetersoncode/codeagent/interp])
//     in which only print and the tools are callable.
//
// # Basic Usage
//
//	gen, err := client.New(ctx, client.Config{Backend: codeagent.BackendOpenAI})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	translate := codeagent.NewTool(
//	    "translates text from French to English. It takes an input named `text` and returns the translation.",
//	    func(ctx context.Context, args codeagent.Args) (any, error) {
//	        text, err := args.String("text", 0)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return myTranslator(ctx, text)
//	    },
//	)
//
//	a := agent.New(gen)
//	result, err := a.Perform(ctx, "Translate the text in the variable `text`.",
//	    []codeagent.Tool{translate},
//	    map[string]any{"text": "Bonjour"},
//	)
//
// Tools are identified by position: the first tool is tool_0, the second
// tool_1 and so on. Typed tools can be built with
// [github.com/spetersoncode/codeagent/tool.Func].
//
// # Backends
//
// Backends implement [CodeGenerator]. The
// [github.com/spetersoncode/codeagent/client] package constructs them and
// reports which ones are compiled in:
//
//   - [BackendEndpoint]: hosted text-generation URL with a token
//   - [BackendOpenAI]: OpenAI chat completions
//   - [BackendAnthropic]: Anthropic messages
//   - [BackendGoogle]: Gemini through the Gemini API
//   - [BackendVertex]: Gemini through Vertex AI
//
// # Errors
//
// Backend failures are returned as [*Error] values categorized as transient,
// permanent or user input. Nothing is retried unless the agent or client is
// configured with a [github.com/spetersoncode/codeagent/retry.Config].
package codeagent
