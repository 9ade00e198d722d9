package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/codeagent"
)

// effectiveDelay returns the configured delay, or the server's Retry-After
// hint when that is longer.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	return max(configured, ai.RetryAfterOf(err))
}

// Do calls fn until it succeeds, fails with a non-transient error, or the
// configured attempts run out. Backoff waits end early when ctx is done.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	return DoNotify(ctx, cfg, nil, fn)
}

// DoNotify is like Do but reports each failed attempt to notify.
// A nil notify is allowed.
func DoNotify[T any](ctx context.Context, cfg Config, notify Notify, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	report := func(e Event) {
		if notify != nil {
			e.MaxAttempts = cfg.attempts()
			e.Timestamp = time.Now()
			notify(e)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.attempts(); attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		retryable := IsTransient(err)
		report(Event{Type: EventAttemptFailed, Attempt: attempt, Error: err, Retryable: retryable})
		if !retryable {
			return zero, err
		}
		if attempt == cfg.attempts() {
			break
		}

		delay := effectiveDelay(cfg.Delay(attempt-1), err)
		report(Event{Type: EventRetrying, Attempt: attempt, Error: err, Delay: delay, Retryable: true})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	report(Event{Type: EventExhausted, Attempt: cfg.attempts(), Error: lastErr, Retryable: true})
	return zero, lastErr
}
