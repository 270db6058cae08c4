package interpret

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/briefing/ai/mock"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `{
  "steps": [
    {"step": "Intent Classification", "description": "Classify", "result": "search", "confidence": 0.9},
    {"step": "Entity Extraction", "description": "Extract", "result": {"products": ["azure"]}, "confidence": 0.7},
    {"step": "Query Expansion", "description": "Expand", "result": "Azure retirements", "confidence": 0.8}
  ],
  "parsed": {
    "intent": "compare",
    "products": ["azure", "azure", "not-a-product", "m365-teams"],
    "keywords": ["retirement", " "],
    "severity": "breaking",
    "period": "null",
    "source": "message-center"
  }
}`

func TestEnriched_Interpret(t *testing.T) {
	reasoner := mock.NewMockReasoner().WithResponse(sampleAnalysis)
	e, err := NewEnriched(reasoner, catalog.Default())
	require.NoError(t, err)

	q, err := e.Interpret(context.Background(), "Azure と Teams の廃止")
	require.NoError(t, err)

	assert.Equal(t, []string{"azure", "m365-teams"}, q.ProductIDs)
	assert.Equal(t, []string{"retirement"}, q.Keywords)
	assert.Equal(t, core.SeverityBreaking, q.Severity)
	assert.Equal(t, core.PeriodNone, q.Period)
	assert.Equal(t, core.SourceMessageCenter, q.Source)
	assert.Equal(t, core.IntentCompare, q.Intent)
	assert.Equal(t, "Azure と Teams の廃止", q.OriginalText)
	assert.InDelta(t, 0.8, q.Confidence, 1e-9)

	require.Len(t, q.ReasoningSteps, 3)
	assert.Equal(t, "search", q.ReasoningSteps[0].Result)
	assert.JSONEq(t, `{"products":["azure"]}`, q.ReasoningSteps[1].Result)
}

func TestEnriched_Request(t *testing.T) {
	reasoner := mock.NewMockReasoner().WithResponse(sampleAnalysis)
	e, err := NewEnriched(reasoner, catalog.Default())
	require.NoError(t, err)

	_, err = e.Interpret(context.Background(), "Copilot news")
	require.NoError(t, err)

	reqs := reasoner.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].JSON)
	assert.Equal(t, 0.1, reqs[0].Temperature)
	assert.Equal(t, 1000, reqs[0].MaxTokens)
	assert.Equal(t, `Analyze this query: "Copilot news"`, reqs[0].User)
	assert.Contains(t, reqs[0].System, "azure-ai")
	assert.Contains(t, reqs[0].System, "m365-copilot")
}

func TestEnriched_Defaults(t *testing.T) {
	reasoner := mock.NewMockReasoner().WithResponse(`{"parsed": {"severity": "urgent", "products": null}}`)
	e, err := NewEnriched(reasoner, catalog.Default())
	require.NoError(t, err)

	q, err := e.Interpret(context.Background(), "something")
	require.NoError(t, err)
	assert.Equal(t, core.IntentSearch, q.Intent)
	assert.Equal(t, core.SeverityNone, q.Severity)
	assert.Empty(t, q.ProductIDs)
	assert.Zero(t, q.Confidence)
	assert.Empty(t, q.ReasoningSteps)
}

func TestEnriched_Errors(t *testing.T) {
	t.Run("reasoner failure", func(t *testing.T) {
		boom := errors.New("boom")
		e, err := NewEnriched(mock.NewMockReasoner().WithError(boom), catalog.Default())
		require.NoError(t, err)

		_, err = e.Interpret(context.Background(), "q")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("schema violation", func(t *testing.T) {
		e, err := NewEnriched(mock.NewMockReasoner().WithResponse(`{"steps": []}`), catalog.Default())
		require.NoError(t, err)

		_, err = e.Interpret(context.Background(), "q")
		assert.ErrorIs(t, err, ErrInvalidAnalysis)
	})

	t.Run("wrong field type", func(t *testing.T) {
		e, err := NewEnriched(mock.NewMockReasoner().WithResponse(`{"parsed": {"products": "azure"}}`), catalog.Default())
		require.NoError(t, err)

		_, err = e.Interpret(context.Background(), "q")
		assert.ErrorIs(t, err, ErrInvalidAnalysis)
	})

	t.Run("not json", func(t *testing.T) {
		e, err := NewEnriched(mock.NewMockReasoner().WithResponse(`I cannot help`), catalog.Default())
		require.NoError(t, err)

		_, err = e.Interpret(context.Background(), "q")
		assert.Error(t, err)
	})
}

func TestNewEnriched_Validation(t *testing.T) {
	_, err := NewEnriched(nil, catalog.Default())
	assert.ErrorIs(t, err, ErrReasonerRequired)

	_, err = NewEnriched(mock.NewMockReasoner(), nil)
	assert.ErrorIs(t, err, ErrCatalogRequired)
}

func TestChain(t *testing.T) {
	rules := newRules(t)

	t.Run("enriched success", func(t *testing.T) {
		e, err := NewEnriched(mock.NewMockReasoner().WithResponse(sampleAnalysis), catalog.Default())
		require.NoError(t, err)
		chain, err := NewChain(rules, e)
		require.NoError(t, err)

		q, method := chain.Interpret(context.Background(), "Azure")
		assert.Equal(t, core.MethodEnriched, method)
		assert.Equal(t, core.IntentCompare, q.Intent)
	})

	t.Run("enriched failure falls back", func(t *testing.T) {
		reasoner := mock.NewMockReasoner().WithError(errors.New("timeout"))
		e, err := NewEnriched(reasoner, catalog.Default())
		require.NoError(t, err)
		chain, err := NewChain(rules, e)
		require.NoError(t, err)

		q, method := chain.Interpret(context.Background(), "Teams breaking changes")
		assert.Equal(t, core.MethodRuleBased, method)
		assert.Equal(t, []string{"m365-teams"}, q.ProductIDs)
		assert.Equal(t, 1, reasoner.CallCount())
	})

	t.Run("unavailable reasoner is not called", func(t *testing.T) {
		reasoner := mock.NewMockReasoner().WithAvailable(false)
		e, err := NewEnriched(reasoner, catalog.Default())
		require.NoError(t, err)
		chain, err := NewChain(rules, e)
		require.NoError(t, err)

		_, method := chain.Interpret(context.Background(), "Teams")
		assert.Equal(t, core.MethodRuleBased, method)
		assert.Zero(t, reasoner.CallCount())
	})

	t.Run("no enriched strategy", func(t *testing.T) {
		chain, err := NewChain(rules, nil)
		require.NoError(t, err)

		_, method := chain.Interpret(context.Background(), "Teams")
		assert.Equal(t, core.MethodRuleBased, method)
	})

	t.Run("rules required", func(t *testing.T) {
		_, err := NewChain(nil, nil)
		assert.ErrorIs(t, err, ErrRulesRequired)
	})
}
