package pipeline

import (
	"context"

	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/rank"
	"github.com/poiesic/briefing/retrieve"
)

// Interpreter turns free text into a structured query and reports the method used.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*core.StructuredQuery, core.InterpretationMethod)
}

// Retriever gathers merged candidates for a structured query.
type Retriever interface {
	Retrieve(ctx context.Context, q *core.StructuredQuery, includeExternal bool) (*retrieve.Result, error)
}

// Ranker orders candidates by relevance.
type Ranker interface {
	Rank(candidates []*core.UpdateRecord, q *core.StructuredQuery) *rank.Result
}

// Evaluator judges a ranked result set and may propose a rewritten query.
type Evaluator interface {
	Evaluate(ctx context.Context, originalQuery string, resultCount int, averageRelevance float64) *core.EvaluationOutcome
}

var (
	_ Retriever = (*retrieve.Retriever)(nil)
	_ Ranker    = (*rank.Ranker)(nil)
)
