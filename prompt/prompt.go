package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/samber/lo"
	ai "github.com/spetersoncode/codeagent"
)

var (
	//go:embed templates/open_assistant.txt
	openAssistantText string

	//go:embed templates/chat_completion.txt
	chatCompletionText string
)

// Template is a prompt with a placeholder for the task and one for the tool
// descriptions.
type Template struct {
	name  string
	text  string
	task  string
	tools string
}

// Built-in templates.
var (
	// OpenAssistant quotes the task and asks for the answer in `result`.
	OpenAssistant = NewTemplate("open_assistant", openAssistantText, "<<prompt>>", "<<tools>>")

	// ChatCompletion is the variant used with chat-completion APIs.
	ChatCompletion = NewTemplate("chat_completion", chatCompletionText, "{prompt}", "{tools}")
)

// NewTemplate creates a template from text containing the given task and
// tools placeholders.
func NewTemplate(name, text, taskPlaceholder, toolsPlaceholder string) Template {
	return Template{
		name:  name,
		text:  text,
		task:  taskPlaceholder,
		tools: toolsPlaceholder,
	}
}

// Name returns the template name.
func (t Template) Name() string { return t.name }

// Text returns the raw template text.
func (t Template) Text() string { return t.text }

// ToolName returns the name under which the tool at index i is exposed.
func ToolName(i int) string {
	return fmt.Sprintf("tool_%d", i)
}

// Describe returns one description line per tool, in order.
func Describe(tools []ai.Tool) []string {
	return lo.Map(tools, func(t ai.Tool, i int) string {
		return fmt.Sprintf("- %s is a function that %s", ToolName(i), t.Description())
	})
}

// Render fills the template with the task and the tool descriptions.
// Substitution happens in a single pass, so placeholder text inside the task
// or a description is left alone.
func (t Template) Render(task string, tools []ai.Tool) string {
	r := strings.NewReplacer(
		t.task, task,
		t.tools, strings.Join(Describe(tools), "\n"),
	)
	return r.Replace(t.text)
}
