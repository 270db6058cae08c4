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

package interpret

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/briefing/ai"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
)

const (
	defaultAnalysisTimeout = 15 * time.Second
	analysisTemperature    = 0.1
	analysisMaxTokens      = 1000
)

// Enriched interprets queries with a five-step reasoning prompt sent to a Reasoner.
type Enriched struct {
	reasoner ai.Reasoner
	catalog  *catalog.Catalog
	timeout  time.Duration
	prompt   string
	logger   *slog.Logger
}

var _ Strategy = (*Enriched)(nil)

// EnrichedOption configures an Enriched interpreter.
type EnrichedOption func(*Enriched) error

// WithTimeout bounds a single analysis call.
func WithTimeout(timeout time.Duration) EnrichedOption {
	return func(e *Enriched) error {
		if timeout > 0 {
			e.timeout = timeout
		}
		return nil
	}
}

// NewEnriched creates an enriched interpreter.
func NewEnriched(reasoner ai.Reasoner, cat *catalog.Catalog, opts ...EnrichedOption) (*Enriched, error) {
	if reasoner == nil {
		return nil, ErrReasonerRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	e := &Enriched{
		reasoner: reasoner,
		catalog:  cat,
		timeout:  defaultAnalysisTimeout,
		prompt:   buildAnalysisPrompt(cat),
		logger:   slog.Default().With("component", "enriched-interpreter"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Method returns MethodEnriched.
func (e *Enriched) Method() core.InterpretationMethod {
	return core.MethodEnriched
}

// Available reports whether the underlying reasoner can be called.
func (e *Enriched) Available() bool {
	return e.reasoner.Available()
}

type analysisStep struct {
	Step        string          `json:"step"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
	Confidence  float64         `json:"confidence"`
}

type analysisParsed struct {
	Intent   string   `json:"intent"`
	Products []string `json:"products"`
	Keywords []string `json:"keywords"`
	Severity string   `json:"severity"`
	Period   string   `json:"period"`
	Source   string   `json:"source"`
}

type analysisReply struct {
	Steps  []analysisStep `json:"steps"`
	Parsed analysisParsed `json:"parsed"`
}

// Interpret asks the reasoner to analyze text and maps its reply to a query.
func (e *Enriched) Interpret(ctx context.Context, text string) (*core.StructuredQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.reasoner.Complete(ctx, ai.Request{
		System:      e.prompt,
		User:        buildAnalysisUserPrompt(text),
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	if err := validateAnalysis(raw); err != nil {
		return nil, err
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, err
	}

	q := e.toQuery(text, &reply)
	e.logger.Debug("analysis completed", "duration", time.Since(start), "steps", len(q.ReasoningSteps),
		"intent", q.Intent)
	return q, nil
}

func (e *Enriched) toQuery(text string, reply *analysisReply) *core.StructuredQuery {
	q := &core.StructuredQuery{
		ProductIDs:   []string{},
		Keywords:     []string{},
		OriginalText: text,
		Intent:       parseIntent(reply.Parsed.Intent),
	}

	seen := make(map[string]bool)
	for _, id := range reply.Parsed.Products {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		if !e.catalog.Has(id) {
			e.logger.Debug("dropping unknown product from analysis", "product", id)
			continue
		}
		q.ProductIDs = append(q.ProductIDs, id)
	}
	for _, kw := range reply.Parsed.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			q.Keywords = append(q.Keywords, kw)
		}
	}

	// Unrecognized enum values are treated like "null".
	q.Severity, _ = core.ParseSeverity(reply.Parsed.Severity)
	q.Period, _ = core.ParsePeriod(reply.Parsed.Period)
	q.Source, _ = core.ParseSource(reply.Parsed.Source)

	var total float64
	for _, s := range reply.Steps {
		q.ReasoningSteps = append(q.ReasoningSteps, core.ReasoningStep{
			Step:        s.Step,
			Description: s.Description,
			Result:      stepResult(s.Result),
			Confidence:  s.Confidence,
		})
		total += s.Confidence
	}
	if len(reply.Steps) > 0 {
		q.Confidence = total / float64(len(reply.Steps))
	}
	return q
}

func parseIntent(s string) core.Intent {
	switch intent := core.Intent(strings.ToLower(strings.TrimSpace(s))); intent {
	case core.IntentBrowse, core.IntentSearch, core.IntentCompare, core.IntentSummarize:
		return intent
	default:
		return core.IntentSearch
	}
}

// stepResult renders a step result as text; non-string values keep their JSON form.
func stepResult(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
