// Package prompt renders the instructions sent to a model from a task and a
// list of tools.
//
// Each tool becomes one description line, "- tool_i is a function that
// <description>", in the order the tools were given. The lines and the task
// are substituted into one of two templates:
//
//   - [OpenAssistant], used by the endpoint backend
//   - [ChatCompletion], used by the chat backends
//
// Both templates teach the expected output format with one worked example
// before presenting the real task. They are kept as separate assets because
// each was tuned against a different family of models.
package prompt
