package ai

// Request is a single completion request.
type Request struct {
	// System is the system prompt.
	System string

	// User is the user prompt.
	User string

	// Temperature controls sampling. Zero is passed through as-is.
	Temperature float64

	// MaxTokens caps the response length. Zero means the service default.
	MaxTokens int

	// JSON requests a JSON object response.
	JSON bool
}
