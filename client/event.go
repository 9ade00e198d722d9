package client

import (
	"time"

	ai "github.com/spetersoncode/codeagent"
)

// EventType names a point in the life of a generation request.
type EventType string

const (
	EventRequestStart    EventType = "request_start"
	EventRequestComplete EventType = "request_complete"
	EventRequestError    EventType = "request_error"

	// EventRetry is sent before each retried attempt.
	EventRetry EventType = "retry"
)

// Event describes one request milestone. Fields that do not apply to the
// event type are zero.
type Event struct {
	Type    EventType
	Backend ai.Backend

	// Attempt and Delay describe the failed attempt and the wait before the
	// next one. Set for EventRetry.
	Attempt int
	Delay   time.Duration

	// Duration covers all attempts. Set for EventRequestComplete and
	// EventRequestError.
	Duration time.Duration

	// Error is the failure of the attempt (EventRetry) or of the request
	// (EventRequestError).
	Error error

	Timestamp time.Time
}

// emit stamps and sends e. It drops the event when no channel is
// configured or the channel is full.
func (c *Client) emit(e Event) {
	if c.events == nil {
		return
	}
	e.Backend = c.backend
	e.Timestamp = time.Now()
	select {
	case c.events <- e:
	default:
	}
}
