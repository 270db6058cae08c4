package pipeline

import "github.com/poiesic/briefing/core"

// Monitor provides hooks to observe pipeline runs.
// Implementations must be safe for concurrent use; runs overlap.
type Monitor interface {
	Start(requestID, query string)
	StageCompleted(requestID string, stage core.StageRecord)
	Evaluated(requestID string, outcome *core.EvaluationOutcome)
	RetryFinished(requestID string, adopted bool)
	Finish(requestID string, result *Result)
	Fail(requestID string, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                             {}
func (n *noopMonitor) StageCompleted(_ string, _ core.StageRecord)   {}
func (n *noopMonitor) Evaluated(_ string, _ *core.EvaluationOutcome) {}
func (n *noopMonitor) RetryFinished(_ string, _ bool)                {}
func (n *noopMonitor) Finish(_ string, _ *Result)                    {}
func (n *noopMonitor) Fail(_ string, _ error)                        {}
