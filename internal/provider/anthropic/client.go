package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/prompt"
)

// Defaults used when no options override them.
const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 1024
)

// Client wraps the Anthropic SDK to implement ai.CodeGenerator.
type Client struct {
	client   *anthropic.Client
	model    string
	options  *ai.Options
	template prompt.Template
	request  []option.RequestOption
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model:    DefaultModel,
		options:  &ai.Options{},
		template: prompt.ChatCompletion,
		request:  []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)},
	}
	for _, opt := range opts {
		opt(c)
	}
	client := anthropic.NewClient(c.request...)
	c.client = &client
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.request = append(c.request, option.WithBaseURL(url))
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.request = append(c.request, option.WithHTTPClient(hc))
	}
}

// WithOptions sets generation options applied to every request.
func WithOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(c.options)
		}
	}
}

// WithTemplate replaces the prompt template.
func WithTemplate(t prompt.Template) ClientOption {
	return func(c *Client) {
		c.template = t
	}
}

// GenerateCode sends the rendered prompt as a single user message and
// returns the concatenated text blocks of the reply.
func (c *Client) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.options.ModelOr(c.model)),
		MaxTokens: int64(c.options.MaxTokensOr(DefaultMaxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.template.Render(task, tools))),
		},
	}
	if c.options.Temperature != nil {
		params.Temperature = anthropic.Float(*c.options.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapError(err)
	}

	var sb strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return sb.String(), nil
}

var _ ai.CodeGenerator = (*Client)(nil)
