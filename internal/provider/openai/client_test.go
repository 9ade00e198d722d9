package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/codeagent"
)

func completion(content string) string {
	return `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-3.5-turbo",
		"choices": [{
			"index": 0,
			"message": {"role": "assistant", "content": ` + quote(content) + `},
			"finish_reason": "stop"
		}]
	}`
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateCode(t *testing.T) {
	tools := []ai.Tool{
		ai.NewTool("answers questions about an image", func(ctx context.Context, args ai.Args) (any, error) {
			return nil, nil
		}),
	}

	t.Run("sends one user message with the rendered prompt", func(t *testing.T) {
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(completion("```\nanswer = tool_0(image=image)\n```")))
		}))
		defer server.Close()

		c := New("sk-test", WithBaseURL(server.URL))
		text, err := c.GenerateCode(context.Background(), "What is in the image?", tools)
		require.NoError(t, err)

		assert.Equal(t, "```\nanswer = tool_0(image=image)\n```", text)
		assert.Equal(t, DefaultModel, body["model"])

		messages := body["messages"].([]any)
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		assert.Contains(t, msg["content"], "What is in the image?")
		assert.Contains(t, msg["content"], "- tool_0 is a function that answers questions about an image")
	})

	t.Run("applies model and sampling options", func(t *testing.T) {
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(completion("x = 1")))
		}))
		defer server.Close()

		c := New("sk-test",
			WithBaseURL(server.URL),
			WithModel("gpt-4o-mini"),
			WithOptions(ai.WithMaxTokens(300), ai.WithTemperature(0.2)),
		)
		_, err := c.GenerateCode(context.Background(), "task", nil)
		require.NoError(t, err)

		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Equal(t, float64(300), body["max_tokens"])
		assert.Equal(t, 0.2, body["temperature"])
	})

	t.Run("no choices is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 0, "model": "m", "choices": []}`))
		}))
		defer server.Close()

		_, err := New("sk-test", WithBaseURL(server.URL)).GenerateCode(context.Background(), "task", nil)
		assert.ErrorContains(t, err, "no choices")
	})

	t.Run("api errors are categorized without retry", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit"}}`))
		}))
		defer server.Close()

		_, err := New("sk-test", WithBaseURL(server.URL)).GenerateCode(context.Background(), "task", nil)
		require.Error(t, err)

		assert.Equal(t, 1, calls)
		assert.True(t, ai.IsTransient(err))
		assert.Equal(t, http.StatusTooManyRequests, ai.StatusCodeOf(err))
		assert.Equal(t, float64(2), ai.RetryAfterOf(err).Seconds())
	})

	t.Run("authentication failure is permanent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "bad key"}}`))
		}))
		defer server.Close()

		_, err := New("sk-bad", WithBaseURL(server.URL)).GenerateCode(context.Background(), "task", nil)
		assert.True(t, ai.IsPermanent(err))
	})
}
