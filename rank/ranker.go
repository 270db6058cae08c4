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

package rank

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/briefing/core"
)

// Weights are the points awarded per matching signal.
type Weights struct {
	Title    float64
	Summary  float64
	Impact   float64
	Product  float64
	Severity float64
	Source   float64
	Recent   float64
	Month    float64
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{
		Title:    3,
		Summary:  2,
		Impact:   1,
		Product:  2,
		Severity: 1,
		Source:   1,
		Recent:   2,
		Month:    1,
	}
}

// Match reasons attached to ranked results.
const (
	ReasonProduct  = "product-match"
	ReasonSeverity = "severity-match"
	ReasonSource   = "source-match"
	ReasonRecent   = "recent-7d"
	ReasonMonth    = "recent-30d"
)

const (
	defaultRecentWindow = 7 * 24 * time.Hour
	defaultMonthWindow  = 30 * 24 * time.Hour

	// Scores closer than this are ordered by severity instead.
	tieBand = 0.1
)

// Result is the output of one ranking pass.
type Result struct {
	Ordered          []core.RankedResult
	AverageRelevance float64
	TopRelevance     float64
}

// Ranker scores candidates against a structured query.
// It holds no per-request state and is safe for concurrent use.
type Ranker struct {
	weights      Weights
	recentWindow time.Duration
	monthWindow  time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithWeights overrides the signal weights.
func WithWeights(w Weights) Option {
	return func(r *Ranker) error {
		r.weights = w
		return nil
	}
}

// WithRecencyWindows sets the recent and monthly bonus windows.
// Default is 7 and 30 days.
func WithRecencyWindows(recent, month time.Duration) Option {
	return func(r *Ranker) error {
		if recent <= 0 || month < recent {
			return fmt.Errorf("invalid recency windows: %s, %s", recent, month)
		}
		r.recentWindow = recent
		r.monthWindow = month
		return nil
	}
}

// WithClock sets the time source for recency bonuses.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) error {
		r.now = now
		return nil
	}
}

// NewRanker creates a Ranker with the default weights.
func NewRanker(opts ...Option) (*Ranker, error) {
	r := &Ranker{
		weights:      DefaultWeights(),
		recentWindow: defaultRecentWindow,
		monthWindow:  defaultMonthWindow,
		now:          time.Now,
		logger:       slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Rank scores every candidate and orders them by relevance. Scores within
// the tie band are ordered by severity priority, breaking first.
func (r *Ranker) Rank(candidates []*core.UpdateRecord, q *core.StructuredQuery) *Result {
	keywords := lowerKeywords(q.Keywords)
	maxPossible := r.maxPossible(len(keywords))
	now := r.now()

	ordered := make([]core.RankedResult, 0, len(candidates))
	for _, rec := range candidates {
		score, reasons := r.score(rec, q, keywords, now)
		ordered = append(ordered, core.RankedResult{
			Record:         rec,
			RelevanceScore: normalize(score, maxPossible),
			MatchReasons:   reasons,
		})
	}

	slices.SortStableFunc(ordered, compareRanked)

	result := &Result{Ordered: ordered}
	if len(ordered) > 0 {
		var sum float64
		for _, rr := range ordered {
			sum += rr.RelevanceScore
		}
		result.AverageRelevance = sum / float64(len(ordered))
		result.TopRelevance = ordered[0].RelevanceScore
	}

	r.logger.Debug("ranking completed", "results", len(ordered), "keywords", len(keywords),
		"average", result.AverageRelevance, "top", result.TopRelevance)
	return result
}

// maxPossible is the score of a record matching every signal. With the
// default weights it is 6 per keyword plus 6.
func (r *Ranker) maxPossible(keywordCount int) float64 {
	w := r.weights
	perKeyword := w.Title + w.Summary + w.Impact
	fixed := w.Product + w.Severity + w.Source + math.Max(w.Recent, w.Month)
	return perKeyword*float64(keywordCount) + fixed
}

func (r *Ranker) score(rec *core.UpdateRecord, q *core.StructuredQuery, keywords []string, now time.Time) (float64, []string) {
	w := r.weights
	var score float64
	reasons := []string{}

	title := strings.ToLower(rec.Title)
	summary := strings.ToLower(rec.Summary)
	impact := strings.ToLower(rec.Impact)
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += w.Title
			reasons = append(reasons, "title:"+kw)
		}
		if strings.Contains(summary, kw) {
			score += w.Summary
			reasons = append(reasons, "summary:"+kw)
		}
		if strings.Contains(impact, kw) {
			score += w.Impact
			reasons = append(reasons, "impact:"+kw)
		}
	}

	if q.HasProduct(rec.Product) {
		score += w.Product
		reasons = append(reasons, ReasonProduct)
	}
	if q.Severity != core.SeverityNone && rec.Severity == q.Severity {
		score += w.Severity
		reasons = append(reasons, ReasonSeverity)
	}
	if q.Source != core.SourceNone && rec.Source == q.Source {
		score += w.Source
		reasons = append(reasons, ReasonSource)
	}

	if date, ok := rec.ParsedDate(); ok {
		age := now.Sub(date)
		switch {
		case age <= r.recentWindow:
			score += w.Recent
			reasons = append(reasons, ReasonRecent)
		case age <= r.monthWindow:
			score += w.Month
			reasons = append(reasons, ReasonMonth)
		}
	}
	return score, reasons
}

func normalize(score, maxPossible float64) float64 {
	if maxPossible <= 0 {
		return 0
	}
	return math.Max(0, math.Min(score/maxPossible, 1))
}

func compareRanked(a, b core.RankedResult) int {
	if diff := a.RelevanceScore - b.RelevanceScore; math.Abs(diff) > tieBand {
		if diff > 0 {
			return -1
		}
		return 1
	}
	return a.Record.Severity.Priority() - b.Record.Severity.Priority()
}

func lowerKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
