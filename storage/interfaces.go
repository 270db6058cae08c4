package storage

import (
	"context"

	"github.com/poiesic/briefing/core"
)

// UpdateRepository stores update records for local retrieval.
// Implementations must be thread-safe and support concurrent access.
type UpdateRepository interface {
	// PutUpdates inserts or replaces records keyed by their ID.
	// Records are validated first; an invalid record aborts the whole batch.
	PutUpdates(ctx context.Context, records ...*core.UpdateRecord) error

	// GetUpdate retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetUpdate(ctx context.Context, id string) (*core.UpdateRecord, error)

	// DeleteUpdates removes records and their indices.
	// Missing IDs are ignored.
	DeleteUpdates(ctx context.Context, ids ...string) error

	// QueryLocal returns the records for any of productIDs (all records when
	// productIDs is empty), then keeps only those matching severity and source
	// when those are set. Each record appears at most once.
	QueryLocal(ctx context.Context, productIDs []string, severity core.Severity, source core.SourceID) ([]*core.UpdateRecord, error)

	// AllUpdates returns every stored record ordered by ID.
	AllUpdates(ctx context.Context) ([]*core.UpdateRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases repository resources. It does not close the backend.
	Close() error
}

// CheckpointRepository persists import progress per seed source.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint, stamping UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint for source, or nil, nil if none exists.
	LoadCheckpoint(ctx context.Context, source string) (*core.Checkpoint, error)
}
