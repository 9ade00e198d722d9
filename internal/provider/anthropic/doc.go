// Package anthropic generates code through the Anthropic messages API.
//
// The rendered prompt is sent as a single user message and the text blocks
// of the reply are concatenated:
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	text, err := client.GenerateCode(ctx, task, tools)
//
// Model and sampling can be set at construction:
//
//	client := anthropic.New(apiKey,
//	    anthropic.WithModel("claude-haiku-4-5"),
//	    anthropic.WithOptions(ai.WithMaxTokens(2048)),
//	)
//
// The SDK's own retries are disabled. Failed requests are returned as
// categorized *ai.Error values so callers can decide whether to retry.
package anthropic
