// Package pipeline coordinates one search request from free text to a
// ranked, evaluated and summarized briefing.
//
// A run moves through fixed states:
//
//	Interpreting → Retrieving → Ranking → Evaluating
//	    → (RetryRetrieving → RetryRanking) → Summarizing → Done
//
// The retry branch runs at most once, only when evaluation fails and a
// rewritten query is available. Its results replace the original ones only
// when their average relevance is strictly higher. Every state appends a
// stage record to the run's trace, and a Monitor can observe each step.
//
// Failing integrations never fail a run: the interpreter falls back to
// rules, external sources contribute nothing, and the summary falls back to
// severity counts. Internal faults surface as ErrSearchFailed.
package pipeline
