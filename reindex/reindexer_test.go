package reindex

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/storage"
	"github.com/poiesic/briefing/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) storage.UpdateRepository {
	t.Helper()
	updates, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return updates
}

func record(id, product, family string) *core.UpdateRecord {
	return &core.UpdateRecord{
		ID:            id,
		Title:         "Update " + id,
		Severity:      core.SeverityImprovement,
		Product:       product,
		ProductFamily: family,
		Source:        core.SourceMessageCenter,
	}
}

func TestNewReindexer_Validation(t *testing.T) {
	repo := setupRepo(t)

	_, err := NewReindexer(nil, catalog.Default(), nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReindexer(repo, nil, nil, nil)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewReindexer(repo, catalog.Default(), &Config{BatchSize: 0, MaxRetries: 1}, nil)
	assert.Error(t, err)

	_, err = NewReindexer(repo, catalog.Default(), &Config{BatchSize: 10, MaxRetries: 0}, nil)
	assert.Error(t, err)

	r, err := NewReindexer(repo, catalog.Default(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BatchSize, r.config.BatchSize)
}

func TestReindexer_Run(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	cat, err := catalog.New(
		core.Product{ID: "power-bi", Name: "Power BI", Family: "Analytics"},
		core.Product{ID: "m365-teams", Name: "Microsoft Teams", Family: "Microsoft 365"},
	)
	require.NoError(t, err)

	require.NoError(t, repo.PutUpdates(ctx,
		record("a", "power-bi", "Power Platform"),
		record("b", "power-bi", "Power Platform"),
		record("c", "m365-teams", "Microsoft 365"),
		record("d", "legacy-product", ""),
		record("e", "legacy-product", "Legacy"),
	))

	var out bytes.Buffer
	r, err := NewReindexer(repo, cat, &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 1}, &out)
	require.NoError(t, err)

	stats, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Updated)
	assert.Equal(t, map[string]int{"legacy-product": 2}, stats.UnknownProducts)

	for id, want := range map[string]string{
		"a": "Analytics",
		"b": "Analytics",
		"c": "Microsoft 365",
		"d": catalog.FamilyOther,
		"e": "Legacy",
	} {
		got, err := repo.GetUpdate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.ProductFamily, "record %s", id)
	}
	assert.Contains(t, out.String(), "Reindexed: 5/5 (100.0%)")

	again, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Updated, "second run is a no-op")
}

func TestReindexer_EmptyDataset(t *testing.T) {
	r, err := NewReindexer(setupRepo(t), catalog.Default(), nil, nil)
	require.NoError(t, err)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Updated)
}

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 10, 4)

	p.Increment(3)
	assert.Zero(t, p.Current(), "updates before Start are ignored")

	p.Start()
	p.Increment(3)
	assert.Empty(t, out.String())
	p.Increment(2)
	assert.Contains(t, out.String(), "Reindexed: 5/10 (50.0%)")

	p.Increment(100)
	assert.Equal(t, 10, p.Current(), "progress is capped at total")

	p.Finish()
	assert.Contains(t, out.String(), fmt.Sprintf("Reindexed: %d/%d (100.0%%)", 10, 10))
	assert.Positive(t, p.Elapsed())
}
