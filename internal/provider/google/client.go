// Package google generates code through the Gemini API.
package google

import (
	"context"
	"fmt"
	"net/http"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/prompt"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client wraps the Google GenAI SDK to implement ai.CodeGenerator.
type Client struct {
	client   *genai.Client
	model    string
	options  *ai.Options
	template prompt.Template
	config   genai.ClientConfig
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		model:    DefaultModel,
		options:  &ai.Options{},
		template: prompt.ChatCompletion,
		config: genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	client, err := genai.NewClient(ctx, &c.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c.client = client
	return c, nil
}

// ClientOption configures the Google client.
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
		c.config.HTTPOptions.BaseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.config.HTTPClient = hc
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

// GenerateCode sends the rendered prompt and returns the text of the first
// candidate.
func (c *Client) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	return Generate(ctx, c.client, c.options.ModelOr(c.model), c.options, c.template.Render(task, tools))
}

// Generate sends a single user turn to the model and returns the reply text.
// It is shared with the Vertex AI backend, which differs only in how the
// genai client is authenticated.
func Generate(ctx context.Context, client *genai.Client, model string, options *ai.Options, text string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(text), config)
	if err != nil {
		return "", WrapError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return resp.Text(), nil
}

var _ ai.CodeGenerator = (*Client)(nil)
