package pipeline

import "errors"

var (
	// ErrSearchFailed is returned when a pipeline run hits an internal fault.
	// No partial result accompanies it.
	ErrSearchFailed = errors.New("search failed")

	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInterpreterRequired is returned when no interpreter is supplied.
	ErrInterpreterRequired = errors.New("interpreter is required")

	// ErrRetrieverRequired is returned when no retriever is supplied.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrRankerRequired is returned when no ranker is supplied.
	ErrRankerRequired = errors.New("ranker is required")

	// ErrEvaluatorRequired is returned when no evaluator is supplied.
	ErrEvaluatorRequired = errors.New("evaluator is required")

	// ErrCatalogRequired is returned when no catalog is supplied.
	ErrCatalogRequired = errors.New("catalog is required")
)
