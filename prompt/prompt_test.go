package prompt

import (
	"context"
	"strings"
	"testing"

	ai "github.com/spetersoncode/codeagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTool(description string) ai.Tool {
	return ai.NewTool(description, func(ctx context.Context, args ai.Args) (any, error) {
		return nil, nil
	})
}

func TestDescribe(t *testing.T) {
	t.Run("one line per tool in order", func(t *testing.T) {
		lines := Describe([]ai.Tool{
			stubTool("translates text."),
			stubTool("answers questions about images."),
			stubTool("reads text aloud."),
		})

		assert.Equal(t, []string{
			"- tool_0 is a function that translates text.",
			"- tool_1 is a function that answers questions about images.",
			"- tool_2 is a function that reads text aloud.",
		}, lines)
	})

	t.Run("empty tool list", func(t *testing.T) {
		assert.Empty(t, Describe(nil))
	})
}

func TestToolName(t *testing.T) {
	assert.Equal(t, "tool_0", ToolName(0))
	assert.Equal(t, "tool_12", ToolName(12))
}

func TestRender(t *testing.T) {
	tools := []ai.Tool{
		stubTool("summarizes a text. It takes an input named `text`."),
		stubTool("classifies a text. It takes an input named `text` and `labels`."),
	}

	t.Run("open assistant template quotes the task", func(t *testing.T) {
		out := OpenAssistant.Render("Summarize the variable `doc`.", tools)

		assert.Contains(t, out, "Task: \"Summarize the variable `doc`.\"\n\nTools:\n"+
			"- tool_0 is a function that summarizes a text. It takes an input named `text`.\n"+
			"- tool_1 is a function that classifies a text. It takes an input named `text` and `labels`.\n\nAnswer:\n")
		assert.NotContains(t, out, "<<prompt>>")
		assert.NotContains(t, out, "<<tools>>")
		assert.True(t, strings.HasSuffix(out, "Answer:\n"))
	})

	t.Run("chat completion template leaves the task unquoted", func(t *testing.T) {
		out := ChatCompletion.Render("Summarize the variable `doc`.", tools)

		assert.Contains(t, out, "Task: Summarize the variable `doc`.\n\nTools:\n- tool_0 is a function that summarizes")
		assert.NotContains(t, out, "{prompt}")
		assert.NotContains(t, out, "{tools}")
	})

	t.Run("description lines keep tool order", func(t *testing.T) {
		out := ChatCompletion.Render("task", tools)
		first := strings.Index(out, "- tool_0 is a function that summarizes")
		second := strings.Index(out, "- tool_1 is a function that classifies")
		require.NotEqual(t, -1, first)
		require.NotEqual(t, -1, second)
		assert.Less(t, first, second)
	})

	t.Run("worked example is preserved", func(t *testing.T) {
		out := OpenAssistant.Render("task", nil)
		assert.Contains(t, out, "translated_question = tool_1(text=question)['translation_text']")
		assert.Contains(t, out, "print(f\"The answer is {result}\")")

		out = ChatCompletion.Render("task", nil)
		assert.Contains(t, out, "answer = tool_3(text=translated_question, image=image)")
	})

	t.Run("placeholders inside the task are not expanded", func(t *testing.T) {
		out := OpenAssistant.Render("echo <<tools>> literally", tools)
		assert.Contains(t, out, "Task: \"echo <<tools>> literally\"")
	})

	t.Run("custom template", func(t *testing.T) {
		tmpl := NewTemplate("custom", "T=$task\n$tools", "$task", "$tools")
		assert.Equal(t, "custom", tmpl.Name())
		assert.Equal(t, "T=hello\n- tool_0 is a function that summarizes a text. It takes an input named `text`.",
			tmpl.Render("hello", tools[:1]))
	})
}

func TestTemplatesAreDistinct(t *testing.T) {
	assert.NotEqual(t, OpenAssistant.Text(), ChatCompletion.Text())
	assert.Equal(t, "open_assistant", OpenAssistant.Name())
	assert.Equal(t, "chat_completion", ChatCompletion.Name())
}
