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
	"strings"
	"time"

	"github.com/poiesic/briefing/ai"
	"github.com/poiesic/briefing/core"
)

// Summary methods.
const (
	SummaryMethodLLM       = "llm"
	SummaryMethodRuleBased = "rule-based"
)

const (
	summaryMaxUpdates  = 10
	summaryTemperature = 0.3
	summaryMaxTokens   = 200

	defaultSummaryTimeout = 15 * time.Second
)

var summaryPrompts = map[string]string{
	"ja": "あなたはMicrosoft製品のテクニカルアドバイザーです。以下のアップデート情報をもとに、マネジメント向けの3行以内のエグゼクティブサマリーを日本語で生成してください。最も重要なポイントに焦点を当ててください。",
	"en": "You are a Microsoft technology advisor. Based on the following update information, generate a concise executive summary (max 3 sentences) for management. Focus on the most critical items.",
	"ko": "당신은 Microsoft 제품 기술 고문입니다. 다음 업데이트 정보를 바탕으로 경영진을 위한 3줄 이내의 요약을 한국어로 생성하세요.",
	"zh": "您是Microsoft产品技术顾问。根据以下更新信息，用中文生成面向管理层的3句以内摘要。",
	"es": "Eres un asesor técnico de Microsoft. Genera un resumen ejecutivo de máximo 3 oraciones basado en la siguiente información.",
	"fr": "Vous êtes un conseiller technique Microsoft. Générez un résumé exécutif de 3 phrases maximum.",
	"de": "Sie sind ein Microsoft-Technologieberater. Erstellen Sie eine Zusammenfassung in maximal 3 Sätzen.",
	"pt": "Você é um consultor técnico da Microsoft. Gere um resumo executivo de no máximo 3 frases.",
}

// BriefingSummary is a short executive summary of the final updates.
type BriefingSummary struct {
	Text       string `json:"summary"`
	Method     string `json:"method"`
	DurationMs int64  `json:"durationMs"`
}

// Summarizer writes briefing summaries, through a reasoner when one is
// available and from severity counts otherwise.
type Summarizer struct {
	reasoner ai.Reasoner
	timeout  time.Duration
	logger   *slog.Logger
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithSummaryReasoner enables model-written summaries.
func WithSummaryReasoner(reasoner ai.Reasoner) SummarizerOption {
	return func(s *Summarizer) {
		s.reasoner = reasoner
	}
}

// WithSummaryTimeout bounds the summary call.
func WithSummaryTimeout(timeout time.Duration) SummarizerOption {
	return func(s *Summarizer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewSummarizer creates a Summarizer. Without a reasoner every summary is rule-based.
func NewSummarizer(opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		timeout: defaultSummaryTimeout,
		logger:  slog.Default().With("component", "summarizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize never fails. An empty update list yields an empty rule-based summary.
func (s *Summarizer) Summarize(ctx context.Context, updates []*core.UpdateRecord, locale, query string) *BriefingSummary {
	start := time.Now()
	if len(updates) == 0 {
		return &BriefingSummary{Method: SummaryMethodRuleBased}
	}

	if s.reasoner != nil && s.reasoner.Available() {
		text, err := s.complete(ctx, updates, locale, query)
		if err == nil {
			s.logger.Info("briefing summary generated", "method", SummaryMethodLLM, "length", len(text))
			return &BriefingSummary{Text: text, Method: SummaryMethodLLM, DurationMs: time.Since(start).Milliseconds()}
		}
		s.logger.Warn("model summary failed, falling back to rules", "err", err)
	}

	return &BriefingSummary{
		Text:       ruleBasedSummary(updates, locale),
		Method:     SummaryMethodRuleBased,
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func (s *Summarizer) complete(ctx context.Context, updates []*core.UpdateRecord, locale, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	system, ok := summaryPrompts[locale]
	if !ok {
		system = summaryPrompts["en"]
	}
	text, err := s.reasoner.Complete(ctx, ai.Request{
		System:      system,
		User:        summaryUserPrompt(updates, query),
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func summaryUserPrompt(updates []*core.UpdateRecord, query string) string {
	var b strings.Builder
	if query != "" {
		fmt.Fprintf(&b, "Query: %q\n\n", query)
	}
	fmt.Fprintf(&b, "Updates (%d total):", len(updates))
	for i, u := range updates {
		if i == summaryMaxUpdates {
			break
		}
		fmt.Fprintf(&b, "\n%d. [%s] %s: %s", i+1, severityLabel(u.Severity), u.Title, u.Summary)
	}
	return b.String()
}

func severityLabel(s core.Severity) string {
	switch s {
	case core.SeverityBreaking:
		return "🔴 CRITICAL"
	case core.SeverityNewFeature:
		return "🟡 NEW"
	default:
		return "🟢 INFO"
	}
}

// ruleBasedSummary writes a Japanese summary for "ja" and English otherwise.
func ruleBasedSummary(updates []*core.UpdateRecord, locale string) string {
	var firstBreaking *core.UpdateRecord
	stats := computeStats(updates)
	for _, u := range updates {
		if u.Severity == core.SeverityBreaking {
			firstBreaking = u
			break
		}
	}

	var parts []string
	if locale == "ja" {
		if firstBreaking != nil {
			parts = append(parts, fmt.Sprintf("🔴 %d件の要対応項目があります。%sなど、早急な確認が必要です。", stats.Breaking, firstBreaking.Title))
		}
		if stats.NewFeature > 0 {
			parts = append(parts, fmt.Sprintf("🟡 %d件の新機能が追加されています。", stats.NewFeature))
		}
		if stats.Improvement > 0 {
			parts = append(parts, fmt.Sprintf("🟢 %d件の改善が含まれています。", stats.Improvement))
		}
		if len(parts) == 0 {
			return fmt.Sprintf("%d件のアップデートが見つかりました。", len(updates))
		}
		return strings.Join(parts, " ")
	}

	if firstBreaking != nil {
		parts = append(parts, fmt.Sprintf("🔴 %d breaking change(s) require immediate attention, including %q.", stats.Breaking, firstBreaking.Title))
	}
	if stats.NewFeature > 0 {
		parts = append(parts, fmt.Sprintf("🟡 %d new feature(s) available for review.", stats.NewFeature))
	}
	if stats.Improvement > 0 {
		parts = append(parts, fmt.Sprintf("🟢 %d improvement(s) included.", stats.Improvement))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d update(s) found.", len(updates))
	}
	return strings.Join(parts, " ")
}
