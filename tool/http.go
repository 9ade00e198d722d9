package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ai "github.com/spetersoncode/codeagent"
)

// HTTPToolOption configures the HTTP tool.
type HTTPToolOption func(*httpToolConfig)

type httpToolConfig struct {
	client          *http.Client
	allowedHosts    []string
	blockedHosts    []string
	maxResponseSize int64
	timeout         time.Duration
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.client = c
	}
}

// WithAllowedHosts restricts requests to specific hosts and their subdomains.
func WithAllowedHosts(hosts ...string) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.allowedHosts = hosts
	}
}

// WithBlockedHosts blocks requests to specific hosts and their subdomains.
func WithBlockedHosts(hosts ...string) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.blockedHosts = hosts
	}
}

// WithMaxResponseSize sets the maximum response body size.
// Default is 1MB.
func WithMaxResponseSize(bytes int64) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.maxResponseSize = bytes
	}
}

// WithHTTPTimeout sets the request timeout.
// Default is 30 seconds.
func WithHTTPTimeout(d time.Duration) HTTPToolOption {
	return func(cfg *httpToolConfig) {
		cfg.timeout = d
	}
}

func applyHTTPOpts(opts []HTTPToolOption) *httpToolConfig {
	cfg := &httpToolConfig{
		maxResponseSize: 1024 * 1024, // 1MB default
		timeout:         30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{
			Timeout: cfg.timeout,
		}
	}
	return cfg
}

func matchHost(host, pattern string) bool {
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

func (c *httpToolConfig) checkURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("tool: unsupported URL scheme %q", u.Scheme)
	}

	host := u.Hostname()
	for _, blocked := range c.blockedHosts {
		if matchHost(host, blocked) {
			return nil, &ErrHostNotAllowed{Host: host, Reason: "is blocked"}
		}
	}
	if len(c.allowedHosts) > 0 {
		allowed := false
		for _, a := range c.allowedHosts {
			if matchHost(host, a) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, &ErrHostNotAllowed{Host: host, Reason: "is not in allowed list"}
		}
	}
	return u, nil
}

type httpGetArgs struct {
	URL string `mapstructure:"url"`
}

func (a httpGetArgs) Validate() error {
	if a.URL == "" {
		return fmt.Errorf("url is required")
	}
	return nil
}

// HTTPGet returns a tool that fetches a URL and returns the response body
// as text. Non-2xx responses are errors. Bodies longer than the size limit
// are truncated.
func HTTPGet(opts ...HTTPToolOption) ai.Tool {
	cfg := applyHTTPOpts(opts)

	return Func("fetches the web page at `url` and returns its body as text",
		func(ctx context.Context, args httpGetArgs) (string, error) {
			u, err := cfg.checkURL(args.URL)
			if err != nil {
				return "", err
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				return "", err
			}

			resp, err := cfg.client.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.maxResponseSize))
			if err != nil {
				return "", err
			}

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return "", fmt.Errorf("tool: GET %s: %s", u.Redacted(), resp.Status)
			}
			return string(body), nil
		})
}
