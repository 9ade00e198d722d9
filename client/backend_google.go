//go:build !codeagent_no_google

package client

import (
	"context"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/internal/provider/google"
	"github.com/spetersoncode/codeagent/internal/provider/vertex"
)

func init() {
	register(ai.BackendGoogle, func(ctx context.Context, cfg Config) (ai.CodeGenerator, error) {
		opts := []google.ClientOption{
			google.WithModel(cfg.Model),
			google.WithOptions(cfg.Options...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, google.WithHTTPClient(cfg.HTTPClient))
		}
		if cfg.Template != nil {
			opts = append(opts, google.WithTemplate(*cfg.Template))
		}
		return google.New(ctx, cfg.APIKey, opts...)
	})

	register(ai.BackendVertex, func(ctx context.Context, cfg Config) (ai.CodeGenerator, error) {
		opts := []vertex.ClientOption{
			vertex.WithModel(cfg.Model),
			vertex.WithOptions(cfg.Options...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, vertex.WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, vertex.WithHTTPClient(cfg.HTTPClient))
		}
		if cfg.Template != nil {
			opts = append(opts, vertex.WithTemplate(*cfg.Template))
		}
		return vertex.New(ctx, cfg.Project, cfg.Location, opts...)
	})
}
