package vertex

import (
	"context"
	"fmt"
	"net/http"
	"os"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/internal/provider/google"
	"github.com/spetersoncode/codeagent/prompt"
	"google.golang.org/genai"
)

// DefaultLocation is used when neither an explicit location nor
// GOOGLE_CLOUD_LOCATION is set.
const DefaultLocation = "us-central1"

// Environment variables consulted for the project and location.
const (
	ProjectEnvVar  = "GOOGLE_CLOUD_PROJECT"
	LocationEnvVar = "GOOGLE_CLOUD_LOCATION"
)

// Client wraps the Google GenAI SDK configured for Vertex AI backend.
type Client struct {
	client   *genai.Client
	model    string
	options  *ai.Options
	template prompt.Template
	config   genai.ClientConfig
}

// New creates a new Vertex AI client for the given project and location.
// Empty values fall back to the environment. Uses Application Default
// Credentials (ADC) for authentication.
func New(ctx context.Context, project, location string, opts ...ClientOption) (*Client, error) {
	project, location, err := resolve(project, location)
	if err != nil {
		return nil, err
	}
	c := &Client{
		model:    google.DefaultModel,
		options:  &ai.Options{},
		template: prompt.ChatCompletion,
		config: genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  project,
			Location: location,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	client, err := genai.NewClient(ctx, &c.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	c.client = client
	return c, nil
}

func resolve(project, location string) (string, string, error) {
	if project == "" {
		project = os.Getenv(ProjectEnvVar)
	}
	if project == "" {
		return "", "", ai.ErrMissingProject
	}
	if location == "" {
		location = os.Getenv(LocationEnvVar)
	}
	if location == "" {
		location = DefaultLocation
	}
	return project, location, nil
}

// ClientOption configures the Vertex AI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the regional endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.config.HTTPOptions.BaseURL = url
	}
}

// WithHTTPClient sets an already-authenticated HTTP client, bypassing
// credential discovery.
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
	return google.Generate(ctx, c.client, c.options.ModelOr(c.model), c.options, c.template.Render(task, tools))
}

var _ ai.CodeGenerator = (*Client)(nil)
