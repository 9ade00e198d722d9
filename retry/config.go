// Package retry re-runs code generation requests that fail with transient
// errors, backing off exponentially between attempts.
//
// Nothing in codeagent retries unless a caller passes a Config. The agent
// accepts one through agent.WithRetry and the client through Config.Retry.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// Jitter scales each delay by a random factor in [1-Jitter, 1+Jitter].
	Jitter float64
}

// DefaultConfig returns a configuration suited to interactive use:
// 3 attempts, 1s initial delay doubling up to 30s, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay calculates the delay after the given zero-indexed attempt.
func (c Config) Delay(attempt int) time.Duration {
	attempt = max(attempt, 0)

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	delay = min(delay, float64(c.MaxDelay))

	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}
	return time.Duration(delay)
}

// attempts returns MaxAttempts, treating zero or negative as one.
func (c Config) attempts() int {
	return max(c.MaxAttempts, 1)
}
