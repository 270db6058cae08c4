package retrieve

import (
	"strings"
	"testing"

	"github.com/poiesic/briefing/core"
	"github.com/stretchr/testify/assert"
)

func rec(id, title string, severity core.Severity) *core.UpdateRecord {
	return &core.UpdateRecord{ID: id, Title: title, Summary: "summary", Severity: severity, Product: "azure"}
}

func ids(records []*core.UpdateRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "azure update", dedupKey("Azure Update"))

	long := strings.Repeat("あ", 60)
	assert.Equal(t, strings.Repeat("あ", 50), dedupKey(long))
}

func TestMerge(t *testing.T) {
	local := []*core.UpdateRecord{rec("mc-1", "AKS version retirement", core.SeverityBreaking)}
	docs := []*core.UpdateRecord{
		rec("learn-1", "aks VERSION retirement", core.SeverityBreaking),
		rec("learn-2", "Functions runtime preview", core.SeverityNewFeature),
	}
	tenant := []*core.UpdateRecord{rec("workiq-1", "Functions runtime preview", core.SeverityNewFeature)}

	merged := merge(local, docs, tenant)
	assert.Equal(t, []string{"mc-1", "learn-2"}, ids(merged))
}

func TestMerge_LongTitlesSharePrefix(t *testing.T) {
	prefix := strings.Repeat("x", 50)
	merged := merge(
		[]*core.UpdateRecord{rec("a", prefix+" first", core.SeverityImprovement)},
		[]*core.UpdateRecord{rec("b", prefix+" second", core.SeverityImprovement)},
	)
	assert.Equal(t, []string{"a"}, ids(merged))
}

func TestMerge_Idempotent(t *testing.T) {
	long := strings.Repeat("サポート終了", 10)
	tests := []struct {
		name string
		sets [][]*core.UpdateRecord
	}{
		{
			name: "mixed case across sources",
			sets: [][]*core.UpdateRecord{
				{rec("mc-1", "AKS Version Retirement", core.SeverityBreaking)},
				{rec("learn-1", "aks version retirement", core.SeverityBreaking), rec("learn-2", "Teams Premium GA", core.SeverityNewFeature)},
				{rec("workiq-1", "TEAMS PREMIUM ga", core.SeverityNewFeature)},
			},
		},
		{
			name: "rune truncated titles",
			sets: [][]*core.UpdateRecord{
				{rec("mc-1", long+" AKS", core.SeverityBreaking), rec("mc-2", long+" Functions", core.SeverityBreaking)},
				{rec("learn-1", strings.ToUpper(long)+"x", core.SeverityImprovement), rec("learn-2", "短いタイトル", core.SeverityImprovement)},
			},
		},
		{
			name: "duplicates within one set",
			sets: [][]*core.UpdateRecord{
				{rec("a", "Same title", core.SeverityImprovement), rec("b", "SAME TITLE", core.SeverityImprovement), rec("c", "Other", core.SeverityImprovement)},
			},
		},
		{
			name: "empty",
		},
	}
	keys := func(records []*core.UpdateRecord) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, dedupKey(r.Title))
		}
		return out
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := merge(tt.sets...)
			twice := merge(once)

			assert.Equal(t, ids(once), ids(twice))
			assert.Equal(t, keys(once), keys(twice))

			seen := make(map[string]bool)
			for _, key := range keys(once) {
				assert.False(t, seen[key], "duplicate key %q", key)
				seen[key] = true
			}
		})
	}
}

func TestFilterLocal(t *testing.T) {
	records := []*core.UpdateRecord{
		rec("1", "Teams meeting recap", core.SeverityImprovement),
		rec("2", "Copilot retirement notice", core.SeverityBreaking),
		rec("3", "New Copilot agent", core.SeverityNewFeature),
		rec("2", "Copilot retirement notice", core.SeverityBreaking),
	}

	t.Run("no keywords keeps all sorted by severity", func(t *testing.T) {
		out := filterLocal(records, nil)
		assert.Equal(t, []string{"2", "3", "1"}, ids(out))
	})

	t.Run("any keyword matches", func(t *testing.T) {
		out := filterLocal(records, []string{"copilot", "nothing"})
		assert.Equal(t, []string{"2", "3"}, ids(out))
	})

	t.Run("case insensitive", func(t *testing.T) {
		out := filterLocal(records, []string{"TEAMS"})
		assert.Equal(t, []string{"1"}, ids(out))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, filterLocal(records, []string{"kubernetes"}))
	})
}
