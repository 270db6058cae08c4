// Package mock provides a test double for ai.Reasoner.
//
// The mock lets tests exercise enriched interpretation, query rewriting and
// summaries without an external chat service, with deterministic replies.
//
// # Usage in Tests
//
//	// Fixed reply for every call
//	reasoner := mock.NewMockReasoner().WithResponse(`{"steps":[],"parsed":{}}`)
//
//	// Custom behaviour per request
//	reasoner := mock.NewMockReasoner().
//	    WithCompleteFunc(func(ctx context.Context, req ai.Request) (string, error) {
//	        if req.JSON {
//	            return analysisJSON, nil
//	        }
//	        return "Azure retirement announcements", nil
//	    })
//
//	// Simulate a missing credential
//	reasoner := mock.NewMockReasoner().WithAvailable(false)
//
//	// Check call counts
//	count := reasoner.CallCount()
//
// # Default Behavior
//
// A new MockReasoner is available and echoes the user prompt back.
package mock
