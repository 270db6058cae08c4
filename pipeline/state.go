package pipeline

// State is a step of a pipeline run.
type State int

const (
	StateInterpreting State = iota
	StateRetrieving
	StateRanking
	StateEvaluating
	StateRetryRetrieving
	StateRetryRanking
	StateSummarizing
	StateDone
)

// Stage names recorded in the trace, one per state that does work.
const (
	StageQuery        = "QueryAgent"
	StageSearch       = "SearchAgent"
	StageRanking      = "RankingAgent"
	StageEvaluator    = "EvaluatorAgent"
	StageRetrySearch  = "RetrySearch"
	StageRetryRanking = "RetryRanking"
	StageSummary      = "BriefingSummary"
)

func (s State) String() string {
	switch s {
	case StateInterpreting:
		return "interpreting"
	case StateRetrieving:
		return "retrieving"
	case StateRanking:
		return "ranking"
	case StateEvaluating:
		return "evaluating"
	case StateRetryRetrieving:
		return "retry-retrieving"
	case StateRetryRanking:
		return "retry-ranking"
	case StateSummarizing:
		return "summarizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stage returns the trace stage name for s, or "" for StateDone.
func (s State) Stage() string {
	switch s {
	case StateInterpreting:
		return StageQuery
	case StateRetrieving:
		return StageSearch
	case StateRanking:
		return StageRanking
	case StateEvaluating:
		return StageEvaluator
	case StateRetryRetrieving:
		return StageRetrySearch
	case StateRetryRanking:
		return StageRetryRanking
	case StateSummarizing:
		return StageSummary
	default:
		return ""
	}
}
