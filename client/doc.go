// Package client selects and builds the code generation backend.
//
// Backends are registered when the program starts. The chat backends are
// compiled in by default and can be left out with build tags:
//
//	go build -tags codeagent_no_anthropic,codeagent_no_google ./cmd/codeagent
//
// Asking for a backend that was left out, or one that does not exist, fails
// with *ai.ErrBackendUnavailable naming the remedy. Use Available or
// Backends to check first.
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Backend: ai.BackendOpenAI,
//	    Model:   "gpt-4o-mini",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := c.GenerateCode(ctx, task, tools)
//
// Chat backends take their key from Config.APIKey or, when that is empty,
// from OPENAI_API_KEY, ANTHROPIC_API_KEY or GOOGLE_API_KEY. A missing key
// is reported by New, before any request is sent.
//
// The endpoint backend posts to a hosted text-generation URL instead:
//
//	c, err := client.New(ctx, client.Config{
//	    Backend: ai.BackendEndpoint,
//	    URL:     "https://example.com/models/starcoder",
//	    Token:   "Bearer " + token,
//	})
//
// # Retries
//
// Requests are attempted once unless Config.Retry is set:
//
//	cfg := retry.DefaultConfig()
//	c, err := client.New(ctx, client.Config{Backend: ai.BackendAnthropic, Retry: &cfg})
//
// # Events
//
// Observe requests via an event channel:
//
//	events := make(chan client.Event, 100)
//	c, err := client.New(ctx, client.Config{Backend: ai.BackendGoogle, Events: events})
//
//	go func() {
//	    for e := range events {
//	        fmt.Printf("[%s] %s took %v\n", e.Type, e.Backend, e.Duration)
//	    }
//	}()
package client
