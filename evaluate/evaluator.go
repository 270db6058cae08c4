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

package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/briefing/ai"
	"github.com/poiesic/briefing/core"
)

// Improvement notes recorded on a failed evaluation.
const (
	NoteNoResults      = "No results found — query may be too specific"
	NoteFewResults     = "Few results — consider broadening query"
	NoteLowRelevance   = "Low relevance — keyword mismatch detected"
	NoteRewriteFailed  = "Self-reflection failed — using original query"
	NoteNoReasoner     = "LLM not available for self-reflection — try a broader query"
	noteRewrittenQuery = "Query rewritten: %q → %q"
)

// DefaultThreshold is the quality score a result set must reach to pass.
const DefaultThreshold = 0.5

const (
	defaultDiversityThreshold = 2
	defaultRewriteTimeout     = 15 * time.Second

	fullCountThreshold    = 3
	lowRelevanceThreshold = 0.3

	rewriteTemperature = 0.3
	rewriteMaxTokens   = 100
)

const rewriteSystemPrompt = "You are a query optimizer. The user's search returned poor results. " +
	"Rewrite their query to be more effective for searching Microsoft product updates. " +
	"Return ONLY the rewritten query text, nothing else."

// Interpreter turns rewritten query text into a structured query.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*core.StructuredQuery, core.InterpretationMethod)
}

// Evaluator scores a ranked result set and proposes one rewritten query
// when the score falls below the threshold.
type Evaluator struct {
	interpreter        Interpreter
	reasoner           ai.Reasoner
	threshold          float64
	diversityThreshold int
	rewriteTimeout     time.Duration
	logger             *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithReasoner enables query rewriting.
func WithReasoner(reasoner ai.Reasoner) Option {
	return func(e *Evaluator) error {
		e.reasoner = reasoner
		return nil
	}
}

// WithThreshold sets the pass mark. Default is 0.5.
func WithThreshold(threshold float64) Option {
	return func(e *Evaluator) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
		}
		e.threshold = threshold
		return nil
	}
}

// WithDiversityThreshold sets the result count that earns the diversity bonus.
// Default is 2.
func WithDiversityThreshold(n int) Option {
	return func(e *Evaluator) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDiversityThreshold, n)
		}
		e.diversityThreshold = n
		return nil
	}
}

// WithRewriteTimeout bounds the rewrite call.
func WithRewriteTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) error {
		if timeout > 0 {
			e.rewriteTimeout = timeout
		}
		return nil
	}
}

// NewEvaluator creates an Evaluator. The interpreter is used to structure
// rewritten queries.
func NewEvaluator(interpreter Interpreter, opts ...Option) (*Evaluator, error) {
	if interpreter == nil {
		return nil, ErrInterpreterRequired
	}
	e := &Evaluator{
		interpreter:        interpreter,
		threshold:          DefaultThreshold,
		diversityThreshold: defaultDiversityThreshold,
		rewriteTimeout:     defaultRewriteTimeout,
		logger:             slog.Default().With("component", "evaluator"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Threshold returns the pass mark.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// CanRewrite reports whether a failed evaluation can produce a rewritten query.
func (e *Evaluator) CanRewrite() bool {
	return e.reasoner != nil && e.reasoner.Available()
}

// Score computes the quality score for a result set. It lies in [0, 1].
func (e *Evaluator) Score(resultCount int, averageRelevance float64) float64 {
	var score float64
	switch {
	case resultCount <= 0:
	case resultCount < fullCountThreshold:
		score += 0.2
	default:
		score += 0.4
	}
	score += math.Max(0, math.Min(averageRelevance*0.4, 0.4))
	if resultCount >= e.diversityThreshold {
		score += 0.2
	}
	return score
}

// Evaluate judges a ranked result set for originalQuery. A failing set gets
// improvement notes and, when a reasoner is available, a rewritten query.
// Rewrite failures are recorded as notes and never returned as errors.
func (e *Evaluator) Evaluate(ctx context.Context, originalQuery string, resultCount int, averageRelevance float64) *core.EvaluationOutcome {
	notes := []string{}
	switch {
	case resultCount <= 0:
		notes = append(notes, NoteNoResults)
	case resultCount < fullCountThreshold:
		notes = append(notes, NoteFewResults)
	}
	if averageRelevance < lowRelevanceThreshold {
		notes = append(notes, NoteLowRelevance)
	}

	score := e.Score(resultCount, averageRelevance)
	passed := score >= e.threshold
	threshold := strconv.FormatFloat(e.threshold, 'f', -1, 64)

	outcome := &core.EvaluationOutcome{
		QualityScore: score,
		Passed:       passed,
	}
	if passed {
		outcome.ReasoningText = fmt.Sprintf("Quality check passed (score: %.2f >= threshold: %s). Results are relevant.", score, threshold)
		outcome.ImprovementNotes = notes
		e.logger.Info("evaluation passed", "score", score, "threshold", e.threshold)
		return outcome
	}
	outcome.ReasoningText = fmt.Sprintf("Quality check failed (score: %.2f < threshold: %s). Attempting query rewrite.", score, threshold)

	if !e.CanRewrite() {
		outcome.ImprovementNotes = append(notes, NoteNoReasoner)
		e.logger.Info("evaluation failed, rewrite unavailable", "score", score, "threshold", e.threshold)
		return outcome
	}

	rewritten, err := e.rewrite(ctx, originalQuery, notes)
	if err != nil {
		e.logger.Warn("query rewrite failed", "err", err)
		outcome.ImprovementNotes = append(notes, NoteRewriteFailed)
		return outcome
	}
	if rewritten != "" {
		improved, method := e.interpreter.Interpret(ctx, rewritten)
		outcome.RewrittenQuery = rewritten
		outcome.ImprovedQuery = improved
		notes = append(notes, fmt.Sprintf(noteRewrittenQuery, originalQuery, rewritten))
		e.logger.Info("query rewritten", "original", originalQuery, "rewritten", rewritten, "method", method)
	}
	outcome.ImprovementNotes = notes
	return outcome
}

func (e *Evaluator) rewrite(ctx context.Context, originalQuery string, notes []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.rewriteTimeout)
	defer cancel()

	text, err := e.reasoner.Complete(ctx, ai.Request{
		System:      rewriteSystemPrompt,
		User:        rewriteUserPrompt(originalQuery, notes),
		Temperature: rewriteTemperature,
		MaxTokens:   rewriteMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return cleanRewrite(text), nil
}

func rewriteUserPrompt(originalQuery string, notes []string) string {
	return fmt.Sprintf("Original query: %q\nIssues: %s\n\nRewrite this query to find better results:",
		originalQuery, strings.Join(notes, ", "))
}

// cleanRewrite strips whitespace and the quotes models like to wrap answers in.
func cleanRewrite(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}
