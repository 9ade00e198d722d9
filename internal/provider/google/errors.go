package google

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/codeagent"
	"google.golang.org/genai"
)

// BlockedError is returned when the prompt was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("prompt blocked: %s", e.Reason)
}

// WrapError wraps a Google GenAI error with codeagent error categorization.
// genai.APIError doesn't expose headers, so Retry-After is not available.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(err.Error(), apiErr.Code, 0, err)
}
