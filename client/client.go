package client

import (
	"context"
	"net/http"
	"time"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/prompt"
	"github.com/spetersoncode/codeagent/retry"
)

// Config selects and configures a code generation backend.
type Config struct {
	// Backend selects the generator implementation.
	Backend ai.Backend

	// Model overrides the backend's default model. Ignored by the endpoint backend.
	Model string

	// APIKey authenticates chat backends. When empty, the backend's
	// environment variable is consulted.
	APIKey string

	// BaseURL points a chat backend at a compatible API or proxy.
	BaseURL string

	// URL and Token configure the endpoint backend. The token is sent
	// verbatim as the Authorization header.
	URL   string
	Token string

	// Project and Location configure the vertex backend. When empty,
	// GOOGLE_CLOUD_PROJECT and GOOGLE_CLOUD_LOCATION are consulted.
	Project  string
	Location string

	// HTTPClient is used for outbound requests when set.
	HTTPClient *http.Client

	// Options sets the model's sampling parameters.
	Options []ai.Option

	// Template replaces the backend's default prompt template.
	Template *prompt.Template

	// Retry enables retrying transient generation failures.
	// If nil, every request is attempted once.
	Retry *retry.Config

	// Events is an optional channel for receiving request events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// Client generates code with the configured backend.
type Client struct {
	backend   ai.Backend
	generator ai.CodeGenerator
	retry     retry.Config
	events    chan<- Event
}

// New creates a client for cfg.Backend. It fails with
// *ai.ErrBackendUnavailable when the backend is unknown or not compiled in,
// and with *ai.ErrMissingAPIKey when a chat backend has no key, before any
// request is made.
func New(ctx context.Context, cfg Config) (*Client, error) {
	factory, err := lookup(cfg.Backend)
	if err != nil {
		return nil, err
	}

	if envVar, ok := apiKeyEnvVars[cfg.Backend]; ok {
		key, err := resolveAPIKey(cfg.Backend, cfg.APIKey, envVar)
		if err != nil {
			return nil, err
		}
		cfg.APIKey = key
	}

	generator, err := factory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	retryConfig := retry.Disabled()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}

	return &Client{
		backend:   cfg.Backend,
		generator: generator,
		retry:     retryConfig,
		events:    cfg.Events,
	}, nil
}

// Backend returns the backend this client was built for.
func (c *Client) Backend() ai.Backend {
	return c.backend
}

// GenerateCode renders the prompt for the task and tools and returns the
// backend's raw generated text.
func (c *Client) GenerateCode(ctx context.Context, task string, tools []ai.Tool) (string, error) {
	start := time.Now()
	c.emit(Event{Type: EventRequestStart})

	notify := func(e retry.Event) {
		if e.Type == retry.EventRetrying {
			c.emit(Event{Type: EventRetry, Attempt: e.Attempt, Delay: e.Delay, Error: e.Error})
		}
	}

	text, err := retry.DoNotify(ctx, c.retry, notify, func(ctx context.Context) (string, error) {
		return c.generator.GenerateCode(ctx, task, tools)
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Duration: time.Since(start), Error: err})
		return "", err
	}

	c.emit(Event{Type: EventRequestComplete, Duration: time.Since(start)})
	return text, nil
}

var _ ai.CodeGenerator = (*Client)(nil)
