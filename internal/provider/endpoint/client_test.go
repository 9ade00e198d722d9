package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/codeagent"
)

func translator() ai.Tool {
	return ai.NewTool("translates text to English", func(ctx context.Context, args ai.Args) (any, error) {
		return "hello", nil
	})
}

func TestNew(t *testing.T) {
	t.Run("requires a URL", func(t *testing.T) {
		c, err := New("", "token")
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ai.ErrMissingEndpoint)
	})
}

func TestGenerateCode(t *testing.T) {
	t.Run("posts prompt and returns generated text", func(t *testing.T) {
		var got request
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`[{"generated_text": "result = tool_0(text=question)"}]`))
		}))
		defer server.Close()

		c, err := New(server.URL, "Bearer secret")
		require.NoError(t, err)

		text, err := c.GenerateCode(context.Background(), "Translate the question", []ai.Tool{translator()})
		require.NoError(t, err)

		assert.Equal(t, "result = tool_0(text=question)", text)
		assert.Equal(t, "Bearer secret", auth)
		assert.Contains(t, got.Inputs, "Translate the question")
		assert.Contains(t, got.Inputs, "- tool_0 is a function that translates text to English")
		assert.Equal(t, parameters{
			MaxNewTokens:   200,
			DoSample:       true,
			Temperature:    0.5,
			ReturnFullText: false,
		}, got.Parameters)
	})

	t.Run("sends sampling overrides", func(t *testing.T) {
		var raw map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			w.Write([]byte(`[{"generated_text": "x = 1"}]`))
		}))
		defer server.Close()

		c, err := New(server.URL, "", WithOptions(ai.WithMaxTokens(64), ai.WithTemperature(0.1)))
		require.NoError(t, err)

		_, err = c.GenerateCode(context.Background(), "task", nil)
		require.NoError(t, err)

		params := raw["parameters"].(map[string]any)
		assert.Equal(t, float64(64), params["max_new_tokens"])
		assert.Equal(t, 0.1, params["temperature"])
		assert.Equal(t, false, params["return_full_text"])
	})

	t.Run("omits authorization without token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Header["Authorization"]
			assert.False(t, ok)
			w.Write([]byte(`[{"generated_text": ""}]`))
		}))
		defer server.Close()

		c, err := New(server.URL, "")
		require.NoError(t, err)

		text, err := c.GenerateCode(context.Background(), "task", nil)
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("non-200 status is a categorized error", func(t *testing.T) {
		tests := []struct {
			name     string
			status   int
			category ai.ErrorCategory
		}{
			{"rate limited", http.StatusTooManyRequests, ai.ErrorTransient},
			{"server error", http.StatusServiceUnavailable, ai.ErrorTransient},
			{"unauthorized", http.StatusUnauthorized, ai.ErrorPermanent},
			{"bad request", http.StatusBadRequest, ai.ErrorUserInput},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(`{"error": "model is loading"}`))
				}))
				defer server.Close()

				c, err := New(server.URL, "token")
				require.NoError(t, err)

				_, err = c.GenerateCode(context.Background(), "task", nil)
				require.Error(t, err)

				var aiErr *ai.Error
				require.True(t, errors.As(err, &aiErr))
				assert.Equal(t, tt.status, aiErr.StatusCode())
				assert.Equal(t, tt.category, aiErr.Category())
				assert.Contains(t, err.Error(), "model is loading")
			})
		}
	})

	t.Run("honors retry-after", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c, err := New(server.URL, "")
		require.NoError(t, err)

		_, err = c.GenerateCode(context.Background(), "task", nil)
		assert.Equal(t, int64(3), int64(ai.RetryAfterOf(err).Seconds()))
	})

	t.Run("malformed responses", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"empty list", `[]`},
			{"missing field", `[{"text": "x"}]`},
			{"not a list", `{"generated_text": "x"}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				c, err := New(server.URL, "")
				require.NoError(t, err)

				_, err = c.GenerateCode(context.Background(), "task", nil)
				assert.Error(t, err)
			})
		}
	})
}
