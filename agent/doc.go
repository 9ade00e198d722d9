// Package agent performs tasks by having a model write code that calls
// tools, then running that code.
//
// # Basic Usage
//
//	gen, err := client.New(ctx, client.Config{Backend: codeagent.BackendOpenAI})
//	if err != nil {
//	    return err
//	}
//
//	a := agent.New(gen)
//	answer, err := a.Perform(ctx, "Translate the question and answer it.",
//	    []codeagent.Tool{translator, imageQA},
//	    map[string]any{"question": "Quelle est la couleur du ciel ?"},
//	)
//
// Perform returns the value of the last statement the generated code
// executed. Run returns the full record instead: the cleaned code, any
// explanation the model wrote after it, and everything the code printed.
//
// Before running, the agent writes the code and explanation to its output
// (os.Stdout unless WithOutput is given):
//
//	==Code generated by the agent==
//	answer = tool_1(image=image, question=tool_0(text=question))
//
//
//	==Result==
//
// # Bindings
//
// Generated code can call print and one tool_i per tool, where i is the
// tool's position in the slice. Names in state are visible to the code and
// assignments are written back into it.
//
// # Events
//
// Use WithEvents to observe runs:
//
//	events := event.NewChannel()
//	a := agent.New(gen, agent.WithEvents(events))
//	go func() {
//	    for e := range events {
//	        if e.Type == event.ToolCallStart {
//	            fmt.Printf("[%s]\n", e.ToolName)
//	        }
//	    }
//	}()
//
// # Configuration Options
//
//   - WithOutput(w): where code, explanation and printed output are written
//   - WithLogger(l): structured logger (default: slog.Default())
//   - WithEvaluator(e): replace the built-in interpreter
//   - WithMaxToolCalls(n): bound tool calls per run
//   - WithRetry(cfg): retry transient generation failures (off by default)
//   - WithTimeout(d): overall deadline per run
//   - WithApprover(fn): require approval before tool calls
//   - WithApprovalRequired(names...): limit approval to some bindings
package agent
