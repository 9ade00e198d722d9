package codeagent

// Backend identifies a code generation backend.
type Backend string

// String returns the backend identifier.
func (b Backend) String() string { return string(b) }

// Supported backends.
const (
	// BackendEndpoint posts the prompt to a hosted text-generation URL.
	BackendEndpoint Backend = "endpoint"
	// BackendOpenAI uses the OpenAI chat completion API.
	BackendOpenAI Backend = "openai"
	// BackendAnthropic uses the Anthropic messages API.
	BackendAnthropic Backend = "anthropic"
	// BackendGoogle uses the Gemini API.
	BackendGoogle Backend = "google"
	// BackendVertex uses Gemini models through Vertex AI.
	BackendVertex Backend = "vertex"
)
