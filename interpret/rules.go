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
	"regexp"
	"strings"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
)

// productTerms maps product ids to the lowercase substrings that identify them.
// Every matching product is kept. Terms match as substrings, so short terms
// such as "bi" also match inside longer words.
var productTerms = []struct {
	id    string
	terms []string
}{
	{"d365-fo", []string{"d365", "dynamics 365", "finance", "operations", "f&o", "fo", "scm", "commerce", "hr", "人事", "財務"}},
	{"d365-ce", []string{"customer engagement", "ce", "sales", "customer service", "field service", "営業", "フィールドサービス"}},
	{"d365-bc", []string{"business central", "bc", "ビジネスセントラル"}},
	{"d365-ci", []string{"customer insights", "ci", "marketing"}},
	{"azure", []string{"azure", "アジュール", "クラウド"}},
	{"azure-ai", []string{"openai", "ai service", "cognitive", "機械学習", "ml"}},
	{"azure-compute", []string{"vm", "app service", "functions", "aks", "kubernetes", "コンテナ"}},
	{"azure-data", []string{"sql", "cosmos", "storage", "synapse", "データベース"}},
	{"azure-networking", []string{"vnet", "load balancer", "front door", "cdn", "ネットワーク"}},
	{"azure-security", []string{"defender", "key vault", "sentinel"}},
	{"m365", []string{"m365", "microsoft 365", "office", "オフィス"}},
	{"m365-teams", []string{"teams", "チームズ"}},
	{"m365-copilot", []string{"copilot", "コパイロット"}},
	{"m365-sharepoint", []string{"sharepoint", "onedrive", "シェアポイント"}},
	{"power-platform", []string{"power platform", "パワープラットフォーム"}},
	{"power-apps", []string{"power apps", "powerapps", "パワーアプリ"}},
	{"power-automate", []string{"power automate", "フロー", "自動化"}},
	{"power-bi", []string{"power bi", "powerbi", "レポート", "bi"}},
	{"dataverse", []string{"dataverse", "データバース"}},
	{"security", []string{"security", "セキュリティ"}},
	{"entra", []string{"entra", "mfa", "認証", "identity"}},
}

// Rules are evaluated in order; the first match wins.
var periodRules = []struct {
	pattern *regexp.Regexp
	period  core.Period
}{
	{regexp.MustCompile(`今週|this week|이번\s*주|本周`), core.PeriodWeek},
	{regexp.MustCompile(`今月|this month|이번\s*달|本月`), core.PeriodMonth},
	{regexp.MustCompile(`3\s*[ヶか月ケ]|3\s*months?|3개월|3个月|四半期|quarter`), core.PeriodQuarter},
	{regexp.MustCompile(`6\s*[ヶか月ケ]|6\s*months?|半年|half\s*year`), core.PeriodHalfYear},
	{regexp.MustCompile(`1\s*[ヶか月ケ]|1\s*month|先月|last\s*month`), core.PeriodMonth},
	{regexp.MustCompile(`1\s*週|1\s*week|先週|last\s*week`), core.PeriodWeek},
	{regexp.MustCompile(`最近|最新|latest|recent|직근`), core.PeriodMonth},
}

var severityRules = []struct {
	pattern  *regexp.Regexp
	severity core.Severity
}{
	{regexp.MustCompile(`breaking|廃止|retirement|サポート終了|要対応|critical|重大|긴급|紧急`), core.SeverityBreaking},
	{regexp.MustCompile(`new|新機能|新しい|新feature|preview|ga|신기능|新功能`), core.SeverityNewFeature},
	{regexp.MustCompile(`improvement|改善|パフォーマンス|向上|개선|改进`), core.SeverityImprovement},
}

var sourceRules = []struct {
	pattern *regexp.Regexp
	source  core.SourceID
}{
	{regexp.MustCompile(`message\s*center|mc\s|通知|notification|メッセージセンター`), core.SourceMessageCenter},
	{regexp.MustCompile(`learn|ドキュメント|docs?|文書`), core.SourceLearn},
}

// RuleBased interprets queries with keyword dictionaries and regular expressions.
// It is deterministic and never fails.
type RuleBased struct {
	catalog *catalog.Catalog
}

var _ Strategy = (*RuleBased)(nil)

// NewRuleBased creates a rule-based interpreter. Product ids are restricted
// to those present in cat.
func NewRuleBased(cat *catalog.Catalog) (*RuleBased, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	return &RuleBased{catalog: cat}, nil
}

// Method returns MethodRuleBased.
func (r *RuleBased) Method() core.InterpretationMethod {
	return core.MethodRuleBased
}

// Interpret parses text. The returned error is always nil.
func (r *RuleBased) Interpret(_ context.Context, text string) (*core.StructuredQuery, error) {
	lower := strings.ToLower(text)

	q := &core.StructuredQuery{
		ProductIDs:   r.matchProducts(lower),
		Keywords:     extractKeywords(text),
		OriginalText: text,
	}
	for _, rule := range periodRules {
		if rule.pattern.MatchString(lower) {
			q.Period = rule.period
			break
		}
	}
	for _, rule := range severityRules {
		if rule.pattern.MatchString(lower) {
			q.Severity = rule.severity
			break
		}
	}
	for _, rule := range sourceRules {
		if rule.pattern.MatchString(lower) {
			q.Source = rule.source
			break
		}
	}
	return q, nil
}

func (r *RuleBased) matchProducts(lower string) []string {
	matches := []string{}
	for _, entry := range productTerms {
		if !r.catalog.Has(entry.id) {
			continue
		}
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				matches = append(matches, entry.id)
				break
			}
		}
	}
	return matches
}
