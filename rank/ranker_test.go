package rank

import (
	"testing"
	"time"

	"github.com/poiesic/briefing/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestRanker(t *testing.T, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(append([]Option{WithClock(func() time.Time { return testNow })}, opts...)...)
	require.NoError(t, err)
	return r
}

func TestRank_Empty(t *testing.T) {
	res := newTestRanker(t).Rank(nil, &core.StructuredQuery{Keywords: []string{"aks"}})
	assert.Empty(t, res.Ordered)
	assert.Zero(t, res.AverageRelevance)
	assert.Zero(t, res.TopRelevance)
}

func TestRank_KeywordRelevance(t *testing.T) {
	teams := &core.UpdateRecord{ID: "1", Title: "Teams update", Severity: core.SeverityImprovement, Product: "m365-teams"}
	aks := &core.UpdateRecord{ID: "2", Title: "Azure AKS Kubernetes retirement", Severity: core.SeverityBreaking, Product: "azure-compute"}

	res := newTestRanker(t).Rank([]*core.UpdateRecord{teams, aks}, &core.StructuredQuery{Keywords: []string{"kubernetes", "aks"}})
	require.Len(t, res.Ordered, 2)
	assert.Equal(t, "2", res.Ordered[0].Record.ID)
	assert.Greater(t, res.Ordered[0].RelevanceScore, res.Ordered[1].RelevanceScore)
	assert.Equal(t, []string{"title:kubernetes", "title:aks"}, res.Ordered[0].MatchReasons)
	// 6 of a possible 18
	assert.InDelta(t, 6.0/18.0, res.Ordered[0].RelevanceScore, 1e-9)
	assert.InDelta(t, res.Ordered[0].RelevanceScore, res.TopRelevance, 1e-9)
	assert.InDelta(t, 3.0/36.0*2, res.AverageRelevance, 1e-9)
}

func TestRank_Signals(t *testing.T) {
	rec := &core.UpdateRecord{
		ID:       "1",
		Title:    "Copilot agents",
		Summary:  "Copilot agents reach general availability",
		Impact:   "Admins can deploy Copilot agents",
		Severity: core.SeverityNewFeature,
		Product:  "m365-copilot",
		Source:   core.SourceMessageCenter,
		Date:     "2025-03-28",
	}
	q := &core.StructuredQuery{
		ProductIDs: []string{"m365-copilot"},
		Keywords:   []string{"Copilot"},
		Severity:   core.SeverityNewFeature,
		Source:     core.SourceMessageCenter,
	}

	res := newTestRanker(t).Rank([]*core.UpdateRecord{rec}, q)
	require.Len(t, res.Ordered, 1)
	assert.InDelta(t, 1.0, res.Ordered[0].RelevanceScore, 1e-9)
	assert.Equal(t, []string{
		"title:copilot", "summary:copilot", "impact:copilot",
		ReasonProduct, ReasonSeverity, ReasonSource, ReasonRecent,
	}, res.Ordered[0].MatchReasons)
}

func TestRank_Recency(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		reason string
		score  float64
	}{
		{name: "this week", date: "2025-03-27", reason: ReasonRecent, score: 2.0 / 6.0},
		{name: "this month", date: "2025-03-10", reason: ReasonMonth, score: 1.0 / 6.0},
		{name: "older", date: "2024-12-01", score: 0},
		{name: "no date", score: 0},
		{name: "unparseable", date: "soon", score: 0},
	}
	r := newTestRanker(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &core.UpdateRecord{ID: "1", Title: "x", Severity: core.SeverityImprovement, Date: tt.date}
			res := r.Rank([]*core.UpdateRecord{rec}, &core.StructuredQuery{})
			assert.InDelta(t, tt.score, res.Ordered[0].RelevanceScore, 1e-9)
			if tt.reason != "" {
				assert.Contains(t, res.Ordered[0].MatchReasons, tt.reason)
			} else {
				assert.Empty(t, res.Ordered[0].MatchReasons)
			}
		})
	}
}

func TestRank_TieBandPrefersBreaking(t *testing.T) {
	improvement := &core.UpdateRecord{ID: "imp", Title: "Power BI visuals", Severity: core.SeverityImprovement, Product: "power-bi"}
	breaking := &core.UpdateRecord{ID: "brk", Title: "Power BI gateway retirement", Severity: core.SeverityBreaking, Product: "power-bi"}
	feature := &core.UpdateRecord{ID: "new", Title: "Power BI", Severity: core.SeverityNewFeature, Product: "power-bi"}

	q := &core.StructuredQuery{ProductIDs: []string{"power-bi"}}
	res := newTestRanker(t).Rank([]*core.UpdateRecord{improvement, feature, breaking}, q)

	got := make([]string, 0, len(res.Ordered))
	for _, rr := range res.Ordered {
		got = append(got, rr.Record.ID)
	}
	assert.Equal(t, []string{"brk", "new", "imp"}, got)
}

func TestRank_ClearWinnerBeatsSeverity(t *testing.T) {
	breaking := &core.UpdateRecord{ID: "brk", Title: "Unrelated retirement", Severity: core.SeverityBreaking}
	match := &core.UpdateRecord{ID: "hit", Title: "Dataverse storage", Summary: "Dataverse storage changes", Severity: core.SeverityImprovement}

	res := newTestRanker(t).Rank([]*core.UpdateRecord{breaking, match}, &core.StructuredQuery{Keywords: []string{"dataverse"}})
	assert.Equal(t, "hit", res.Ordered[0].Record.ID)
}

func TestRank_PreservesLengthAndBounds(t *testing.T) {
	records := []*core.UpdateRecord{
		{ID: "1", Title: "a b c", Summary: "a b c", Impact: "a b c", Severity: core.SeverityBreaking, Date: "2025-03-30"},
		{ID: "2", Title: "nothing", Severity: core.SeverityImprovement},
		{ID: "3", Title: "b", Severity: core.SeverityNewFeature, Date: "2026-01-01"},
	}
	res := newTestRanker(t).Rank(records, &core.StructuredQuery{Keywords: []string{"a", "b", "c"}})
	require.Len(t, res.Ordered, len(records))
	for _, rr := range res.Ordered {
		assert.GreaterOrEqual(t, rr.RelevanceScore, 0.0)
		assert.LessOrEqual(t, rr.RelevanceScore, 1.0)
	}
}

func TestWithRecencyWindows(t *testing.T) {
	_, err := NewRanker(WithRecencyWindows(0, time.Hour))
	assert.Error(t, err)

	_, err = NewRanker(WithRecencyWindows(48*time.Hour, 24*time.Hour))
	assert.Error(t, err)

	r := newTestRanker(t, WithRecencyWindows(24*time.Hour, 48*time.Hour))
	rec := &core.UpdateRecord{ID: "1", Title: "x", Severity: core.SeverityImprovement, Date: "2025-03-30"}
	res := r.Rank([]*core.UpdateRecord{rec}, &core.StructuredQuery{})
	assert.Equal(t, []string{ReasonMonth}, res.Ordered[0].MatchReasons)
}
