// Package endpoint generates code by posting the prompt to a hosted
// text-generation URL.
package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/prompt"
)

// Sampling defaults sent with every request.
const (
	DefaultMaxNewTokens = 200
	DefaultTemperature  = 0.5
)

// Client posts rendered prompts to a text-generation endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	template   prompt.Template
	options    *ai.Options
}

// ClientOption configures the endpoint client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTemplate replaces the prompt template.
func WithTemplate(t prompt.Template) ClientOption {
	return func(c *Client) {
		c.template = t
	}
}

// WithOptions overrides the sampling parameters.
func WithOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(c.options)
		}
	}
}

// New creates a client for the given URL. The token is sent verbatim as
// the Authorization header; an empty token sends no header.
func New(url, token string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		return nil, ai.ErrMissingEndpoint
	}
	c := &Client{
		url:        url,
		token:      token,
		httpClient: http.DefaultClient,
		template:   prompt.OpenAssistant,
		options:    &ai.Options{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	DoSample       bool    `json:"do_sample"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type generation struct {
	GeneratedText *string `json:"generated_text"`
}

// GenerateCode renders the prompt and returns the endpoint's generated text.
func (c *Client) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	body, err := json.Marshal(request{
		Inputs: c.template.Render(task, tools),
		Parameters: parameters{
			MaxNewTokens: c.options.MaxTokensOr(DefaultMaxNewTokens),
			DoSample:     true,
			Temperature:  c.options.TemperatureOr(DefaultTemperature),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", ai.NewStatusError(
			fmt.Sprintf("endpoint returned status %d: %s", resp.StatusCode, raw),
			resp.StatusCode,
			ai.ParseRetryAfter(resp.Header),
			nil,
		)
	}

	var generations []generation
	if err := json.Unmarshal(raw, &generations); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(generations) == 0 {
		return "", fmt.Errorf("endpoint returned no generations")
	}
	if generations[0].GeneratedText == nil {
		return "", fmt.Errorf("endpoint response missing generated_text")
	}
	return *generations[0].GeneratedText, nil
}

var _ ai.CodeGenerator = (*Client)(nil)
