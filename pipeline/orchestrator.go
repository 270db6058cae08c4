// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/evaluate"
	"github.com/poiesic/briefing/rank"
	"github.com/poiesic/briefing/retrieve"
)

// maxSearchAttempts is the original search plus one self-reflection retry.
const maxSearchAttempts = 2

// Orchestrator runs the interpret, retrieve, rank, evaluate and summarize
// stages for one request at a time. It holds no per-request state, so one
// Orchestrator serves concurrent requests.
type Orchestrator struct {
	interpreter Interpreter
	retriever   Retriever
	ranker      Ranker
	evaluator   Evaluator
	summarizer  *Summarizer
	catalog     *catalog.Catalog
	monitor     Monitor
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithSummarizer sets the briefing summarizer.
// Default is a rule-based Summarizer.
func WithSummarizer(s *Summarizer) Option {
	return func(o *Orchestrator) error {
		if s != nil {
			o.summarizer = s
		}
		return nil
	}
}

// WithMonitor sets the observer notified of every run.
func WithMonitor(m Monitor) Option {
	return func(o *Orchestrator) error {
		if m == nil {
			m = &noopMonitor{}
		}
		o.monitor = m
		return nil
	}
}

// WithClock sets the time source used by the period filter.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) error {
		o.now = now
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an Orchestrator from its stage implementations.
func NewOrchestrator(
	interpreter Interpreter,
	retriever Retriever,
	ranker Ranker,
	evaluator Evaluator,
	cat *catalog.Catalog,
	opts ...Option,
) (*Orchestrator, error) {
	switch {
	case interpreter == nil:
		return nil, ErrInterpreterRequired
	case retriever == nil:
		return nil, ErrRetrieverRequired
	case ranker == nil:
		return nil, ErrRankerRequired
	case evaluator == nil:
		return nil, ErrEvaluatorRequired
	case cat == nil:
		return nil, ErrCatalogRequired
	}

	o := &Orchestrator{
		interpreter: interpreter,
		retriever:   retriever,
		ranker:      ranker,
		evaluator:   evaluator,
		summarizer:  NewSummarizer(),
		catalog:     cat,
		monitor:     &noopMonitor{},
		now:         time.Now,
		logger:      slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// run carries the state of one request through the stages.
type run struct {
	requestID string
	req       Request
	trace     *core.PipelineTrace
	logger    *slog.Logger

	query      *core.StructuredQuery
	method     core.InterpretationMethod
	retrieved  *retrieve.Result
	ranked     *rank.Result
	evaluation *core.EvaluationOutcome
	summary    *BriefingSummary
}

// attempt is the output of one retrieve and rank pass.
type attempt struct {
	retrieved *retrieve.Result
	ranked    *rank.Result
}

// Search runs the full pipeline for req. Integration failures degrade the
// result; only internal faults and local dataset failures return an error,
// always wrapping ErrSearchFailed.
func (o *Orchestrator) Search(ctx context.Context, req Request) (result *Result, err error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	requestID := uuid.NewString()
	r := &run{
		requestID: requestID,
		req:       req,
		trace:     &core.PipelineTrace{RequestID: requestID, Stages: []core.StageRecord{}},
		logger:    o.logger.With("request_id", requestID),
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("pipeline panicked", "panic", p)
			result, err = nil, fmt.Errorf("%w: %v", ErrSearchFailed, p)
		}
		if err != nil {
			o.monitor.Fail(requestID, err)
		}
	}()

	o.monitor.Start(requestID, req.Query)
	r.logger.Info("search started", "query", req.Query, "locale", req.Locale, "external", req.IncludeExternal)

	if err := o.execute(ctx, r); err != nil {
		return nil, err
	}

	result = o.buildResult(r)
	r.trace.TotalDurationMs = time.Since(start).Milliseconds()
	r.logger.Info("search completed", "results", len(result.Updates), "duration", time.Since(start),
		"stages", len(r.trace.Stages))
	o.monitor.Finish(requestID, result)
	return result, nil
}

// execute walks the stages in order. The retrieve and rank passes form a
// loop of at most two iterations; the second runs only when the evaluator
// produced a rewritten query, and its output is adopted only if it is
// strictly more relevant.
func (o *Orchestrator) execute(ctx context.Context, r *run) error {
	o.interpret(ctx, r)

	var best *attempt
	query := r.query
	for i := 0; i < maxSearchAttempts; i++ {
		retrying := i > 0
		current, err := o.retrieveAndRank(ctx, r, query, retrying)
		if err != nil {
			return err
		}

		if retrying {
			adopted := current.ranked.AverageRelevance > best.ranked.AverageRelevance
			if adopted {
				r.logger.Info("retry improved results",
					"original", best.ranked.AverageRelevance, "improved", current.ranked.AverageRelevance)
				best = current
			}
			o.monitor.RetryFinished(r.requestID, adopted)
			break
		}

		best = current
		next := o.evaluate(ctx, r, current)
		if next == nil {
			break
		}
		query = next
	}

	r.retrieved = best.retrieved
	r.ranked = best.ranked
	o.summarize(ctx, r)
	return nil
}

func (o *Orchestrator) interpret(ctx context.Context, r *run) {
	start := time.Now()
	q, method := o.interpreter.Interpret(ctx, r.req.Query)
	if r.req.Period != core.PeriodNone {
		q.Period = r.req.Period
	}
	r.query, r.method = q, method
	r.trace.Method = method
	r.trace.ReasoningSteps = q.ReasoningSteps

	status := core.StageFallback
	if method == core.MethodEnriched {
		status = core.StageSuccess
	}
	o.record(r, StateInterpreting, status, start,
		fmt.Sprintf("Method: %s, Products: %s", method, strings.Join(q.ProductIDs, ",")))
}

func (o *Orchestrator) retrieveAndRank(ctx context.Context, r *run, q *core.StructuredQuery, retrying bool) (*attempt, error) {
	retrieveState, rankState := StateRetrieving, StateRanking
	if retrying {
		retrieveState, rankState = StateRetryRetrieving, StateRetryRanking
	}

	start := time.Now()
	retrieved, err := o.retriever.Retrieve(ctx, q, r.req.IncludeExternal)
	if err != nil {
		r.logger.Error("retrieval failed", "state", retrieveState, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	candidates := filterByPeriod(retrieved.Candidates, r.req.Period, o.now())
	c := retrieved.Counts
	o.record(r, retrieveState, core.StageSuccess, start,
		fmt.Sprintf("Local: %d, Learn: %d, Tenant: %d, Merged: %d", c.Local, c.Learn, c.Tenant, c.Total))

	start = time.Now()
	ranked := o.ranker.Rank(candidates, q)
	if len(ranked.Ordered) != len(candidates) {
		panic(fmt.Sprintf("ranker returned %d results for %d candidates", len(ranked.Ordered), len(candidates)))
	}
	o.record(r, rankState, core.StageSuccess, start,
		fmt.Sprintf("Avg relevance: %.3f, Top: %.3f", ranked.AverageRelevance, ranked.TopRelevance))

	return &attempt{retrieved: retrieved, ranked: ranked}, nil
}

// evaluate records the evaluation and returns the rewritten query to retry
// with, or nil when no retry should run.
func (o *Orchestrator) evaluate(ctx context.Context, r *run, current *attempt) *core.StructuredQuery {
	start := time.Now()
	outcome := o.evaluator.Evaluate(ctx, r.req.Query, len(current.ranked.Ordered), current.ranked.AverageRelevance)
	if outcome == nil || outcome.QualityScore < 0 || outcome.QualityScore > 1 {
		panic(fmt.Sprintf("evaluator returned invalid outcome: %+v", outcome))
	}
	r.evaluation = outcome
	o.monitor.Evaluated(r.requestID, outcome)

	switch {
	case outcome.Passed:
		o.record(r, StateEvaluating, core.StageSuccess, start,
			fmt.Sprintf("Score: %.2f, passed", outcome.QualityScore))
		return nil
	case outcome.ImprovedQuery != nil:
		o.record(r, StateEvaluating, core.StageSuccess, start,
			fmt.Sprintf("Self-reflection: retry, Score: %.2f", outcome.QualityScore))
		r.logger.Info("evaluator triggered re-search", "rewritten", outcome.RewrittenQuery)
		return outcome.ImprovedQuery
	case slices.Contains(outcome.ImprovementNotes, evaluate.NoteRewriteFailed):
		o.record(r, StateEvaluating, core.StageSkipped, start,
			fmt.Sprintf("Score: %.2f, rewrite failed", outcome.QualityScore))
		return nil
	case slices.Contains(outcome.ImprovementNotes, evaluate.NoteNoReasoner):
		o.record(r, StateEvaluating, core.StageSkipped, start,
			fmt.Sprintf("Score: %.2f, no LLM for rewrite", outcome.QualityScore))
		return nil
	default:
		o.record(r, StateEvaluating, core.StageSkipped, start,
			fmt.Sprintf("Score: %.2f, empty rewrite", outcome.QualityScore))
		return nil
	}
}

func (o *Orchestrator) summarize(ctx context.Context, r *run) {
	start := time.Now()
	r.summary = o.summarizer.Summarize(ctx, updatesOf(r.ranked), r.req.Locale, r.req.Query)
	o.record(r, StateSummarizing, core.StageSuccess, start,
		fmt.Sprintf("Method: %s, Length: %d", r.summary.Method, len([]rune(r.summary.Text))))
}

func (o *Orchestrator) record(r *run, state State, status core.StageStatus, start time.Time, details string) {
	stage := core.StageRecord{
		Stage:      state.Stage(),
		Status:     status,
		DurationMs: time.Since(start).Milliseconds(),
		Details:    details,
	}
	r.trace.Stages = append(r.trace.Stages, stage)
	r.logger.Debug("stage completed", "state", state, "status", status, "details", details)
	o.monitor.StageCompleted(r.requestID, stage)
}

func (o *Orchestrator) buildResult(r *run) *Result {
	updates := updatesOf(r.ranked)
	return &Result{
		Updates:       updates,
		Stats:         computeStats(updates),
		Trace:         r.trace,
		QueryAnalysis: QueryAnalysis{Parsed: r.query, Method: r.method},
		SearchSources: r.retrieved.Counts,
		Ranking: Ranking{
			AverageRelevance: r.ranked.AverageRelevance,
			TopRelevance:     r.ranked.TopRelevance,
		},
		Evaluation:  r.evaluation,
		Summary:     r.summary,
		Query:       r.req.Query,
		Suggestions: suggest(r.query, updates, o.catalog),
	}
}

func updatesOf(ranked *rank.Result) []*core.UpdateRecord {
	updates := make([]*core.UpdateRecord, 0, len(ranked.Ordered))
	for _, rr := range ranked.Ordered {
		updates = append(updates, rr.Record)
	}
	return updates
}

// filterByPeriod drops records dated before the period window.
// Undated records are kept.
func filterByPeriod(records []*core.UpdateRecord, period core.Period, now time.Time) []*core.UpdateRecord {
	if !period.Valid() {
		return records
	}
	cutoff := now.Add(-period.Duration())
	out := make([]*core.UpdateRecord, 0, len(records))
	for _, rec := range records {
		if date, ok := rec.ParsedDate(); ok && date.Before(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
