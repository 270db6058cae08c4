package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "https://learn.microsoft.com/azure/aks/retire"},
		{name: "empty string", content: ""},
		{name: "non-ascii content", content: "Teams の新機能"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestID_String(t *testing.T) {
	s := IDFromContent("anything").String()
	assert.Len(t, s, 16)
	assert.Equal(t, "0000000000000001", ID(1).String())
}

func TestSeverity_Priority(t *testing.T) {
	assert.Equal(t, 0, SeverityBreaking.Priority())
	assert.Equal(t, 1, SeverityNewFeature.Priority())
	assert.Equal(t, 2, SeverityImprovement.Priority())
	assert.Equal(t, 3, SeverityNone.Priority())
	assert.Less(t, SeverityBreaking.Priority(), SeverityImprovement.Priority())
}

func TestPeriod_Duration(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		period Period
		want   time.Duration
	}{
		{PeriodWeek, 7 * day},
		{PeriodMonth, 30 * day},
		{PeriodQuarter, 90 * day},
		{PeriodHalfYear, 180 * day},
		{PeriodNone, 0},
		{Period("2y"), 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Duration())
			assert.Equal(t, tt.want > 0, tt.period.Valid())
		})
	}
}

func TestUpdateRecord_ParsedDate(t *testing.T) {
	t.Run("iso date", func(t *testing.T) {
		r := &UpdateRecord{Date: "2025-03-14"}
		got, ok := r.ParsedDate()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rfc3339 timestamp", func(t *testing.T) {
		r := &UpdateRecord{Date: "2025-03-14T10:00:00Z"}
		_, ok := r.ParsedDate()
		assert.True(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := (&UpdateRecord{}).ParsedDate()
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := (&UpdateRecord{Date: "next tuesday"}).ParsedDate()
		assert.False(t, ok)
	})
}

func TestStructuredQuery_HasProduct(t *testing.T) {
	q := &StructuredQuery{ProductIDs: []string{"azure", "m365-teams"}}
	assert.True(t, q.HasProduct("azure"))
	assert.True(t, q.HasProduct("m365-teams"))
	assert.False(t, q.HasProduct("power-bi"))
}
