package ai

import "context"

// Reasoner is an external reasoning capability reached through a chat
// completion API. It is used for enriched query interpretation, query
// rewriting and briefing summaries.
// Implementations must be thread-safe for concurrent use.
type Reasoner interface {
	// Complete sends a system and user prompt and returns the model's text
	// response. When req.JSON is set, implementations request JSON output and
	// return the response with code fences removed and common formatting
	// mistakes repaired, but they do not validate its structure.
	// Returns an error if the service is unreachable, times out or returns
	// no choices.
	Complete(ctx context.Context, req Request) (string, error)

	// Available reports whether the reasoner is configured and enabled.
	// Callers must treat an unavailable reasoner as absent and degrade silently.
	Available() bool

	// Close releases resources held by the reasoner.
	Close() error
}
