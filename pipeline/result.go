package pipeline

import (
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/retrieve"
)

// Request is one search request.
type Request struct {
	Query  string
	Locale string

	// IncludeExternal consults documentation and tenant backends in
	// addition to the local dataset.
	IncludeExternal bool

	// Period, when set, drops records dated before the window and
	// overrides any period found in the query text.
	Period core.Period
}

// Stats counts final updates by severity.
type Stats struct {
	Breaking    int `json:"breaking"`
	NewFeature  int `json:"newFeature"`
	Improvement int `json:"improvement"`
	Total       int `json:"total"`
}

// QueryAnalysis reports how the query was understood.
type QueryAnalysis struct {
	Parsed *core.StructuredQuery     `json:"parsed"`
	Method core.InterpretationMethod `json:"method"`
}

// Ranking summarizes the relevance of the final result set.
type Ranking struct {
	AverageRelevance float64 `json:"averageRelevance"`
	TopRelevance     float64 `json:"topRelevance"`
}

// Result is the complete output of one pipeline run.
type Result struct {
	Updates       []*core.UpdateRecord    `json:"updates"`
	Stats         Stats                   `json:"stats"`
	Trace         *core.PipelineTrace     `json:"reasoning"`
	QueryAnalysis QueryAnalysis           `json:"queryAnalysis"`
	SearchSources retrieve.Counts         `json:"searchSources"`
	Ranking       Ranking                 `json:"ranking"`
	Evaluation    *core.EvaluationOutcome `json:"evaluation,omitempty"`
	Summary       *BriefingSummary        `json:"briefingSummary,omitempty"`
	Query         string                  `json:"query"`
	Suggestions   []string                `json:"suggestions"`
}

func computeStats(updates []*core.UpdateRecord) Stats {
	stats := Stats{Total: len(updates)}
	for _, u := range updates {
		switch u.Severity {
		case core.SeverityBreaking:
			stats.Breaking++
		case core.SeverityNewFeature:
			stats.NewFeature++
		case core.SeverityImprovement:
			stats.Improvement++
		}
	}
	return stats
}
