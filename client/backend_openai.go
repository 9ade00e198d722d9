//go:build !codeagent_no_openai

package client

import (
	"context"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/internal/provider/openai"
)

func init() {
	register(ai.BackendOpenAI, func(_ context.Context, cfg Config) (ai.CodeGenerator, error) {
		opts := []openai.ClientOption{
			openai.WithModel(cfg.Model),
			openai.WithOptions(cfg.Options...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, openai.WithHTTPClient(cfg.HTTPClient))
		}
		if cfg.Template != nil {
			opts = append(opts, openai.WithTemplate(*cfg.Template))
		}
		return openai.New(cfg.APIKey, opts...), nil
	})
}
