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
	"log/slog"

	"github.com/poiesic/briefing/core"
)

// Strategy turns free text into a StructuredQuery.
type Strategy interface {
	// Interpret parses text. Implementations set OriginalText to text verbatim.
	Interpret(ctx context.Context, text string) (*core.StructuredQuery, error)

	// Method identifies the strategy in pipeline traces.
	Method() core.InterpretationMethod
}

// Chain prefers the enriched strategy and falls back to rule-based parsing.
// It never fails: rule-based interpretation always produces a query.
type Chain struct {
	enriched *Enriched
	rules    *RuleBased
	logger   *slog.Logger
}

// NewChain creates a chain. enriched may be nil, in which case every query is
// parsed by rules.
func NewChain(rules *RuleBased, enriched *Enriched) (*Chain, error) {
	if rules == nil {
		return nil, ErrRulesRequired
	}
	return &Chain{
		enriched: enriched,
		rules:    rules,
		logger:   slog.Default().With("component", "interpret"),
	}, nil
}

// Interpret returns the structured query and the method that produced it.
func (c *Chain) Interpret(ctx context.Context, text string) (*core.StructuredQuery, core.InterpretationMethod) {
	if c.enriched != nil && c.enriched.Available() {
		q, err := c.enriched.Interpret(ctx, text)
		if err == nil {
			c.logger.Info("query interpreted", "method", c.enriched.Method(), "intent", q.Intent,
				"products", len(q.ProductIDs), "confidence", q.Confidence)
			return q, c.enriched.Method()
		}
		c.logger.Warn("enriched interpretation failed, falling back to rules", "err", err)
	}

	// Rule-based parsing is pure and never fails.
	q, _ := c.rules.Interpret(ctx, text)
	c.logger.Info("query interpreted", "method", c.rules.Method(), "products", len(q.ProductIDs))
	return q, c.rules.Method()
}

// Rules exposes the rule-based strategy.
func (c *Chain) Rules() *RuleBased {
	return c.rules
}
