package client

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	ai "github.com/spetersoncode/codeagent"
)

// factory builds a generator from a config whose API key is already resolved.
type factory func(ctx context.Context, cfg Config) (ai.CodeGenerator, error)

// factories is filled by init functions in the backend files, so the set
// of available backends is fixed when the program starts.
var factories = map[ai.Backend]factory{}

func register(b ai.Backend, f factory) {
	factories[b] = f
}

// buildTags names the tag that excludes each optional backend.
var buildTags = map[ai.Backend]string{
	ai.BackendOpenAI:    "codeagent_no_openai",
	ai.BackendAnthropic: "codeagent_no_anthropic",
	ai.BackendGoogle:    "codeagent_no_google",
	ai.BackendVertex:    "codeagent_no_google",
}

// apiKeyEnvVars maps chat backends to the variable holding their key.
var apiKeyEnvVars = map[ai.Backend]string{
	ai.BackendOpenAI:    "OPENAI_API_KEY",
	ai.BackendAnthropic: "ANTHROPIC_API_KEY",
	ai.BackendGoogle:    "GOOGLE_API_KEY",
}

// Available reports whether the backend is compiled into this binary.
func Available(b ai.Backend) bool {
	_, ok := factories[b]
	return ok
}

// Backends returns the available backends in sorted order.
func Backends() []ai.Backend {
	backends := lo.Keys(factories)
	slices.Sort(backends)
	return backends
}

// APIKeyEnvVar returns the environment variable consulted for the backend's
// API key, or "" when the backend does not use one.
func APIKeyEnvVar(b ai.Backend) string {
	return apiKeyEnvVars[b]
}

func lookup(b ai.Backend) (factory, error) {
	if f, ok := factories[b]; ok {
		return f, nil
	}
	if tag, ok := buildTags[b]; ok {
		return nil, &ai.ErrBackendUnavailable{
			Backend: b,
			Hint:    fmt.Sprintf("this binary was built with the %s tag; rebuild without it", tag),
		}
	}
	names := lo.Map(Backends(), func(b ai.Backend, _ int) string { return b.String() })
	return nil, &ai.ErrBackendUnavailable{
		Backend: b,
		Hint:    "unknown backend; available: " + strings.Join(names, ", "),
	}
}

func resolveAPIKey(b ai.Backend, explicit, envVar string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", &ai.ErrMissingAPIKey{Backend: b, EnvVar: envVar}
}
