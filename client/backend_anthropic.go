//go:build !codeagent_no_anthropic

package client

import (
	"context"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/internal/provider/anthropic"
)

func init() {
	register(ai.BackendAnthropic, func(_ context.Context, cfg Config) (ai.CodeGenerator, error) {
		opts := []anthropic.ClientOption{
			anthropic.WithModel(cfg.Model),
			anthropic.WithOptions(cfg.Options...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, anthropic.WithHTTPClient(cfg.HTTPClient))
		}
		if cfg.Template != nil {
			opts = append(opts, anthropic.WithTemplate(*cfg.Template))
		}
		return anthropic.New(cfg.APIKey, opts...), nil
	})
}
