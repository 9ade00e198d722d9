package main

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/client"
	"github.com/spetersoncode/codeagent/prompt"
	"github.com/spetersoncode/codeagent/retry"
)

// Config holds the resolved CLI configuration.
type Config struct {
	// Backend selection
	Backend  string `yaml:"backend"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	URL      string `yaml:"url"`
	Token    string `yaml:"token"`
	Project  string `yaml:"project"`
	Location string `yaml:"location"`

	// Generation
	Template    string   `yaml:"template"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`

	// Agent
	Timeout      time.Duration  `yaml:"timeout"`
	Retries      int            `yaml:"retries"`
	MaxToolCalls int            `yaml:"max_tool_calls"`
	State        map[string]any `yaml:"state"`

	// Tools
	AllowHosts  []string `yaml:"allow_hosts"`
	BasePath    string   `yaml:"base_path"`
	MCPCommands []string `yaml:"mcp_commands"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Backend:  string(ai.BackendOpenAI),
		Timeout:  2 * time.Minute,
		LogLevel: "info",
	}
}

// LoadConfig builds the configuration from defaults, CODEAGENT_*
// environment variables and the YAML file at path, in increasing order of
// precedence. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

func (c *Config) loadEnv() error {
	setString(&c.Backend, "CODEAGENT_BACKEND")
	setString(&c.Model, "CODEAGENT_MODEL")
	setString(&c.URL, "CODEAGENT_URL")
	setString(&c.Token, "CODEAGENT_TOKEN")
	setString(&c.BaseURL, "CODEAGENT_BASE_URL")
	setString(&c.LogLevel, "CODEAGENT_LOG_LEVEL")
	setString(&c.BasePath, "CODEAGENT_BASE_PATH")

	if value := os.Getenv("CODEAGENT_ALLOW_HOSTS"); value != "" {
		c.AllowHosts = strings.Split(value, ",")
	}
	if value := os.Getenv("CODEAGENT_TIMEOUT"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("CODEAGENT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	for key, dst := range map[string]*int{
		"CODEAGENT_RETRIES":        &c.Retries,
		"CODEAGENT_MAX_TOOL_CALLS": &c.MaxToolCalls,
		"CODEAGENT_MAX_TOKENS":     &c.MaxTokens,
	} {
		if value := os.Getenv(key); value != "" {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Apply overrides the configuration with every flag that was set.
func (c *Config) Apply(f *AgentFlags) {
	overrides := map[*string]string{
		&c.Backend:  f.Backend,
		&c.Model:    f.Model,
		&c.APIKey:   f.APIKey,
		&c.BaseURL:  f.BaseURL,
		&c.URL:      f.URL,
		&c.Token:    f.Token,
		&c.Project:  f.Project,
		&c.Location: f.Location,
		&c.BasePath: f.BasePath,
		&c.Template: f.Template,
	}
	for dst, value := range overrides {
		if value != "" {
			*dst = value
		}
	}

	if f.MaxTokens > 0 {
		c.MaxTokens = f.MaxTokens
	}
	if f.Temperature != nil {
		c.Temperature = f.Temperature
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.Retries > 0 {
		c.Retries = f.Retries
	}
	if f.MaxToolCalls > 0 {
		c.MaxToolCalls = f.MaxToolCalls
	}
	if len(f.AllowHosts) > 0 {
		c.AllowHosts = f.AllowHosts
	}
	if len(f.MCPCommands) > 0 {
		c.MCPCommands = f.MCPCommands
	}
}

// MergeState adds the given variables over the configured state.
func (c *Config) MergeState(state map[string]string) {
	if len(state) == 0 {
		return
	}
	if c.State == nil {
		c.State = make(map[string]any, len(state))
	}
	for k, v := range state {
		c.State[k] = v
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	backend := ai.Backend(c.Backend)
	if !client.Available(backend) {
		return fmt.Errorf("unknown backend: %s (available: %s)", c.Backend, strings.Join(backendNames(), ", "))
	}
	if backend == ai.BackendEndpoint && c.URL == "" {
		return fmt.Errorf("CODEAGENT_URL or --url is required for the endpoint backend")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.template(); err != nil {
		return err
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	return nil
}

// ClientConfig returns the generator configuration.
func (c *Config) ClientConfig() client.Config {
	var opts []ai.Option
	if c.MaxTokens > 0 {
		opts = append(opts, ai.WithMaxTokens(c.MaxTokens))
	}
	if c.Temperature != nil {
		opts = append(opts, ai.WithTemperature(*c.Temperature))
	}

	tmpl, _ := c.template()
	return client.Config{
		Template: tmpl,
		Backend:  ai.Backend(c.Backend),
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		URL:      c.URL,
		Token:    c.Token,
		Project:  c.Project,
		Location: c.Location,
		Options:  opts,
	}
}

// RetryConfig returns the retry policy, or nil when retries are off.
func (c *Config) RetryConfig() *retry.Config {
	if c.Retries == 0 {
		return nil
	}
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = c.Retries + 1
	return &cfg
}

// InitialState returns a copy of the configured state.
func (c *Config) InitialState() map[string]any {
	state := maps.Clone(c.State)
	if state == nil {
		state = make(map[string]any)
	}
	return state
}

// template returns the named prompt template, or nil for the backend
// default.
func (c *Config) template() (*prompt.Template, error) {
	var t prompt.Template
	switch c.Template {
	case "":
		return nil, nil
	case prompt.OpenAssistant.Name():
		t = prompt.OpenAssistant
	case prompt.ChatCompletion.Name():
		t = prompt.ChatCompletion
	default:
		return nil, fmt.Errorf("unknown template %q (must be %s or %s)",
			c.Template, prompt.OpenAssistant.Name(), prompt.ChatCompletion.Name())
	}
	return &t, nil
}

func backendNames() []string {
	backends := client.Backends()
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.String()
	}
	return names
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
	}
	return level, nil
}
