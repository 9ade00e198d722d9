package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/codeagent"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(3), func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(3), func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", ai.NewTransientError("busy", 503, nil)
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		permanent := ai.NewPermanentError("bad key", 401, nil)
		_, err := Do(context.Background(), fastConfig(5), func(context.Context) (int, error) {
			calls++
			return 0, permanent
		})
		assert.Same(t, permanent, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(3), func(context.Context) (int, error) {
			calls++
			return 0, ai.NewTransientError("busy", 503, nil)
		})
		assert.True(t, ai.IsTransient(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("disabled makes one attempt", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Disabled(), func(context.Context) (int, error) {
			calls++
			return 0, ai.NewTransientError("busy", 503, nil)
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation ends backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

		calls := 0
		_, err := Do(ctx, cfg, func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, ai.NewTransientError("busy", 503, nil)
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors longer retry-after", func(t *testing.T) {
		var times []time.Time
		_, err := Do(context.Background(), fastConfig(2), func(context.Context) (int, error) {
			times = append(times, time.Now())
			if len(times) == 1 {
				return 0, ai.NewTransientErrorWithRetry("slow down", 429, 40*time.Millisecond, nil)
			}
			return 1, nil
		})
		require.NoError(t, err)
		require.Len(t, times, 2)
		assert.GreaterOrEqual(t, times[1].Sub(times[0]), 35*time.Millisecond)
	})
}

func TestDoNotify(t *testing.T) {
	var events []Event
	_, err := DoNotify(context.Background(), fastConfig(2), func(e Event) {
		events = append(events, e)
	}, func(context.Context) (int, error) {
		return 0, errors.New("gateway timeout")
	})
	require.Error(t, err)

	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
		assert.Equal(t, 2, e.MaxAttempts)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Equal(t, []EventType{EventAttemptFailed, EventRetrying, EventAttemptFailed, EventExhausted}, types)
	assert.Equal(t, 2, events[2].Attempt)
}

func TestEffectiveDelay(t *testing.T) {
	assert.Equal(t, time.Second, effectiveDelay(100*time.Millisecond,
		ai.NewTransientErrorWithRetry("x", 429, time.Second, nil)))
	assert.Equal(t, time.Second, effectiveDelay(time.Second,
		ai.NewTransientErrorWithRetry("x", 429, 10*time.Millisecond, nil)))
	assert.Equal(t, time.Second, effectiveDelay(time.Second, errors.New("plain")))
}
