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

package reindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/retry"
	"github.com/poiesic/briefing/storage"
)

var (
	// ErrRepositoryRequired is returned when no update repository is provided.
	ErrRepositoryRequired = errors.New("update repository required")

	// ErrCatalogRequired is returned when no catalog is provided.
	ErrCatalogRequired = errors.New("product catalog required")
)

// Config holds configuration for a reindex run.
type Config struct {
	// BatchSize is the number of records written per storage call
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a failed batch write
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Stats summarizes a reindex run.
type Stats struct {
	Total           int
	Updated         int
	UnknownProducts map[string]int
}

// Reindexer realigns stored records with the current product catalog.
// Product families are recomputed from the catalog, so a catalog edit that
// moves a product between families reaches records imported earlier.
type Reindexer struct {
	repo     storage.UpdateRepository
	catalog  *catalog.Catalog
	config   *Config
	progress io.Writer
}

// NewReindexer creates a reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo storage.UpdateRepository, cat *catalog.Catalog, config *Config, progress io.Writer) (*Reindexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than 0, got %d", config.BatchSize)
	}
	if config.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be greater than 0, got %d", config.MaxRetries)
	}
	return &Reindexer{
		repo:     repo,
		catalog:  cat,
		config:   config,
		progress: progress,
	}, nil
}

// Run scans every stored record and rewrites those whose family no longer
// matches the catalog. Records for products missing from the catalog keep
// their family and are counted in Stats.UnknownProducts.
func (r *Reindexer) Run(ctx context.Context) (*Stats, error) {
	records, err := r.repo.AllUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	stats := &Stats{Total: len(records), UnknownProducts: map[string]int{}}
	tracker := NewProgressTracker(r.progress, len(records), r.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(records); start += r.config.BatchSize {
		end := min(start+r.config.BatchSize, len(records))
		changed := r.realign(records[start:end], stats)

		if len(changed) > 0 {
			err := retry.RetryWithBackoff(ctx, func() error {
				err := r.repo.PutUpdates(ctx, changed...)
				if errors.Is(err, core.ErrInvalidUpdateRecord) {
					return retry.Permanent(err)
				}
				return err
			}, r.config.MaxRetries, r.config.RetryDelay)
			if err != nil {
				return stats, fmt.Errorf("write batch at %d: %w", start, err)
			}
			stats.Updated += len(changed)
		}
		tracker.Increment(end - start)
	}

	tracker.Finish()
	return stats, nil
}

func (r *Reindexer) realign(batch []*core.UpdateRecord, stats *Stats) []*core.UpdateRecord {
	var changed []*core.UpdateRecord
	for _, record := range batch {
		family := record.ProductFamily
		if r.catalog.Has(record.Product) {
			family = r.catalog.Family(record.Product)
		} else {
			stats.UnknownProducts[record.Product]++
			if family == "" {
				family = catalog.FamilyOther
			}
		}
		if family == record.ProductFamily {
			continue
		}
		updated := *record
		updated.ProductFamily = family
		changed = append(changed, &updated)
	}
	return changed
}
