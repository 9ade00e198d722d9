package agent

import "fmt"

// ErrToolRejected is returned from a tool binding when the approver
// rejects the call.
type ErrToolRejected struct {
	Tool   string
	Reason string
}

func (e *ErrToolRejected) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("agent: call to %s was rejected", e.Tool)
	}
	return fmt.Sprintf("agent: call to %s was rejected: %s", e.Tool, e.Reason)
}
