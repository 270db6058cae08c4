package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/storage"
	"github.com/poiesic/briefing/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupImporter(t *testing.T, opts ...Option) (*Importer, storage.UpdateRepository, storage.CheckpointRepository) {
	t.Helper()
	updates, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	imp, err := NewImporter(updates, checkpoints, catalog.Default(), opts...)
	require.NoError(t, err)
	t.Cleanup(imp.Release)
	return imp, updates, checkpoints
}

func TestNewImporter_Validation(t *testing.T) {
	updates, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewImporter(nil, checkpoints, catalog.Default())
	assert.ErrorIs(t, err, ErrUpdateRepositoryRequired)

	_, err = NewImporter(updates, nil, catalog.Default())
	assert.ErrorIs(t, err, ErrCheckpointRepositoryRequired)

	_, err = NewImporter(updates, checkpoints, nil)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewImporter(updates, checkpoints, catalog.Default(), WithBatchSize(0))
	assert.Error(t, err)
}

func TestImporter_ImportFiles(t *testing.T) {
	ctx := context.Background()
	imp, updates, checkpoints := setupImporter(t, WithBatchSize(2))

	report, err := imp.ImportFiles(ctx, "testdata/seed.yaml")
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Len(t, report.Files, 1)

	fr := report.Files[0]
	assert.Equal(t, 3, fr.Imported)
	assert.Equal(t, 1, fr.Invalid, "record without product is skipped")
	assert.False(t, fr.Skipped)
	assert.NotEmpty(t, fr.Digest)
	assert.Equal(t, 3, report.Imported())

	count, err := updates.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	aks, err := updates.GetUpdate(ctx, "mc-aks-127")
	require.NoError(t, err)
	assert.Equal(t, core.SeverityBreaking, aks.Severity)
	assert.Equal(t, core.SourceMessageCenter, aks.Source)
	assert.Equal(t, "Azure", aks.ProductFamily)
	assert.Equal(t, "2026-04-30", aks.Deadline)

	d365, err := updates.QueryLocal(ctx, []string{"d365-fo"}, core.SeverityNone, core.SourceNone)
	require.NoError(t, err)
	require.Len(t, d365, 1)
	assert.Equal(t, core.SeverityImprovement, d365[0].Severity, "severity is normalized")
	assert.Regexp(t, `^mc-[0-9a-f]{16}$`, d365[0].ID)

	cp, err := checkpoints.LoadCheckpoint(ctx, checkpointSource("testdata/seed.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, fr.Digest, cp.Digest)
	assert.Equal(t, 3, cp.Records)
}

func TestImporter_SkipsUnchangedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	data, err := os.ReadFile("testdata/seed.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	imp, updates, _ := setupImporter(t)

	first, err := imp.ImportFiles(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Err())
	assert.False(t, first.Files[0].Skipped)

	second, err := imp.ImportFiles(ctx, path)
	require.NoError(t, err)
	assert.True(t, second.Files[0].Skipped)
	assert.Zero(t, second.Imported())

	extra := append(data, []byte(`  - id: mc-extra
    title: Power BI retires legacy workspaces
    severity: breaking
    product: power-bi
`)...)
	require.NoError(t, os.WriteFile(path, extra, 0o600))

	third, err := imp.ImportFiles(ctx, path)
	require.NoError(t, err)
	require.NoError(t, third.Err())
	assert.False(t, third.Files[0].Skipped)
	assert.Equal(t, 4, third.Files[0].Imported)

	count, err := updates.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestImporter_Force(t *testing.T) {
	ctx := context.Background()
	imp, _, _ := setupImporter(t, WithForce(true))

	_, err := imp.ImportFiles(ctx, "testdata/seed.yaml")
	require.NoError(t, err)

	report, err := imp.ImportFiles(ctx, "testdata/seed.yaml")
	require.NoError(t, err)
	assert.False(t, report.Files[0].Skipped)
	assert.Equal(t, 3, report.Files[0].Imported)
}

func TestImporter_FileErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("updates: [unterminated"), 0o600))

	imp, updates, _ := setupImporter(t, WithPoolSize(2))

	report, err := imp.ImportFiles(ctx, filepath.Join(dir, "missing.yaml"), bad, "testdata/seed.yaml")
	require.NoError(t, err)
	require.Len(t, report.Files, 3)

	assert.Error(t, report.Files[0].Err)
	assert.ErrorIs(t, report.Files[1].Err, ErrInvalidSeed)
	assert.NoError(t, report.Files[2].Err, "other files still import")
	assert.Error(t, report.Err())

	count, err := updates.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
