package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// RemoteError is returned when an MCP tool reports a failure in its
// result.
type RemoteError struct {
	Tool    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("mcp: %s failed: %s", e.Tool, e.Message)
}

// ResultText concatenates the content of a tool result as text. Text
// content is used as is; other content is rendered as JSON.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// resultValue returns the text of a successful result. A result with only
// structured content yields that content, so generated code can index it.
func resultValue(tool string, result *mcp.CallToolResult) (any, error) {
	if result == nil {
		return nil, &RemoteError{Tool: tool, Message: "empty result"}
	}
	text := ResultText(result)
	if result.IsError {
		return nil, &RemoteError{Tool: tool, Message: text}
	}
	if len(result.Content) == 0 && result.StructuredContent != nil {
		return result.StructuredContent, nil
	}
	return text, nil
}
