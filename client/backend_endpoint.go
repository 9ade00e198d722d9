package client

import (
	"context"

	ai "github.com/spetersoncode/codeagent"
	"github.com/spetersoncode/codeagent/internal/provider/endpoint"
)

func init() {
	register(ai.BackendEndpoint, func(_ context.Context, cfg Config) (ai.CodeGenerator, error) {
		opts := []endpoint.ClientOption{endpoint.WithOptions(cfg.Options...)}
		if cfg.HTTPClient != nil {
			opts = append(opts, endpoint.WithHTTPClient(cfg.HTTPClient))
		}
		if cfg.Template != nil {
			opts = append(opts, endpoint.WithTemplate(*cfg.Template))
		}
		return endpoint.New(cfg.URL, cfg.Token, opts...)
	})
}
