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

package ingest

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/go-crypt/x/blake2b"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/storage"
)

const defaultBatchSize = 100

// FileReport describes the import of one seed file.
type FileReport struct {
	Path     string
	Digest   string
	Imported int
	Invalid  int
	Skipped  bool
	Err      error
}

// Report collects the per-file results of an import run, in input order.
type Report struct {
	Files []FileReport
}

// Imported returns the number of records written across all files.
func (r *Report) Imported() int {
	n := 0
	for _, f := range r.Files {
		n += f.Imported
	}
	return n
}

// Err returns the first file error, if any.
func (r *Report) Err() error {
	for _, f := range r.Files {
		if f.Err != nil {
			return fmt.Errorf("%s: %w", f.Path, f.Err)
		}
	}
	return nil
}

// Importer loads YAML seed files into the local update dataset.
// Files run concurrently on a worker pool. A checkpoint holding the file
// digest is written after each successful file, and unchanged files are
// skipped on later runs.
type Importer struct {
	updates     storage.UpdateRepository
	checkpoints storage.CheckpointRepository
	catalog     *catalog.Catalog
	pool        *ants.Pool
	batchSize   int
	force       bool
	logger      *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the number of files imported concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(imp *Importer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if imp.pool != nil {
			imp.pool.Release()
		}
		imp.pool = pool
		return nil
	}
}

// WithBatchSize sets how many records are written per storage call.
func WithBatchSize(size int) Option {
	return func(imp *Importer) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		imp.batchSize = size
		return nil
	}
}

// WithForce re-imports files even when their checkpoint digest matches.
func WithForce(force bool) Option {
	return func(imp *Importer) error {
		imp.force = force
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(imp *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		imp.logger = logger
		return nil
	}
}

// NewImporter creates an importer writing to the given repositories.
func NewImporter(
	updates storage.UpdateRepository,
	checkpoints storage.CheckpointRepository,
	cat *catalog.Catalog,
	opts ...Option,
) (*Importer, error) {
	if updates == nil {
		return nil, ErrUpdateRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	imp := &Importer{
		updates:     updates,
		checkpoints: checkpoints,
		catalog:     cat,
		pool:        pool,
		batchSize:   defaultBatchSize,
		logger:      slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		if optErr := opt(imp); optErr != nil {
			imp.Release()
			return nil, optErr
		}
	}
	return imp, nil
}

// ImportFiles imports every path and waits for all of them. A failed file
// does not stop the others; inspect Report.Err for failures. The returned
// error is non-nil only when work could not be scheduled.
func (imp *Importer) ImportFiles(ctx context.Context, paths ...string) (*Report, error) {
	report := &Report{Files: make([]FileReport, len(paths))}

	var wg sync.WaitGroup
	for i, path := range paths {
		report.Files[i].Path = path
		wg.Add(1)
		err := imp.pool.Submit(func() {
			defer wg.Done()
			report.Files[i] = imp.importFile(ctx, path)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return report, fmt.Errorf("schedule import of %s: %w", path, err)
		}
	}
	wg.Wait()
	return report, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) FileReport {
	fr := FileReport{Path: path}
	logger := imp.logger.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Digest = digest(data)

	source := checkpointSource(path)
	if !imp.force {
		cp, err := imp.checkpoints.LoadCheckpoint(ctx, source)
		if err != nil {
			fr.Err = fmt.Errorf("load checkpoint: %w", err)
			return fr
		}
		if cp != nil && cp.Digest == fr.Digest {
			logger.Info("seed file unchanged, skipping", "records", cp.Records)
			fr.Skipped = true
			return fr
		}
	}

	records, err := ParseSeed(data)
	if err != nil {
		fr.Err = err
		return fr
	}

	valid := make([]*core.UpdateRecord, 0, len(records))
	for i, record := range records {
		if record == nil {
			fr.Invalid++
			continue
		}
		normalize(record, imp.catalog)
		if err := core.ValidateUpdateRecord(record); err != nil {
			logger.Warn("skipping invalid record", "index", i, "err", err)
			fr.Invalid++
			continue
		}
		if !imp.catalog.Has(record.Product) {
			logger.Debug("record product not in catalog", "product", record.Product, "id", record.ID)
		}
		valid = append(valid, record)
	}

	for start := 0; start < len(valid); start += imp.batchSize {
		if err := ctx.Err(); err != nil {
			fr.Err = err
			return fr
		}
		end := min(start+imp.batchSize, len(valid))
		if err := imp.updates.PutUpdates(ctx, valid[start:end]...); err != nil {
			fr.Err = fmt.Errorf("store records: %w", err)
			return fr
		}
		fr.Imported = end
	}

	err = imp.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		Source:  source,
		Digest:  fr.Digest,
		Records: fr.Imported,
	})
	if err != nil {
		fr.Err = fmt.Errorf("save checkpoint: %w", err)
		return fr
	}

	logger.Info("seed file imported", "records", fr.Imported, "invalid", fr.Invalid)
	return fr
}

// Release releases the worker pool.
// The importer should not be used after calling Release.
func (imp *Importer) Release() {
	if imp.pool != nil {
		imp.pool.Release()
	}
}

func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func checkpointSource(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "seed:" + filepath.ToSlash(path)
}
