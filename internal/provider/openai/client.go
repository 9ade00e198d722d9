// Package openai generates code through the OpenAI chat completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/prompt"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-3.5-turbo"

// Client wraps the OpenAI SDK to implement ai.CodeGenerator.
type Client struct {
	client   *openai.Client
	model    string
	options  *ai.Options
	template prompt.Template
	request  []option.RequestOption
}

// New creates a new OpenAI client with the given API key.
// SDK retries are disabled; callers opt into retry separately.
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
	client := openai.NewClient(c.request...)
	c.client = &client
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a compatible API.
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
// returns the content of the first choice.
func (c *Client) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.options.ModelOr(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(c.template.Render(task, tools)),
		},
	}
	if c.options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.options.MaxTokens))
	}
	if c.options.Temperature != nil {
		params.Temperature = openai.Float(*c.options.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", categorize(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ ai.CodeGenerator = (*Client)(nil)

// categorize turns API errors into *ai.Error by status code. Transport
// errors are returned unchanged.
func categorize(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	var retryAfter time.Duration
	if apiErr.Response != nil {
		retryAfter = ai.ParseRetryAfter(apiErr.Response.Header)
	}
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.StatusCode)
	}
	return ai.NewStatusError("openai: "+msg, apiErr.StatusCode, retryAfter, err)
}
