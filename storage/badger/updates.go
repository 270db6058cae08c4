package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/storage"
)

// UpdateRepository implements storage.UpdateRepository for BadgerDB.
type UpdateRepository struct {
	backend *Backend
}

var _ storage.UpdateRepository = (*UpdateRepository)(nil)

// NewUpdateRepository creates a new UpdateRepository.
func NewUpdateRepository(backend *Backend) *UpdateRepository {
	return &UpdateRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *UpdateRepository) Close() error {
	return nil
}

// PutUpdates inserts or replaces records, keeping the product index in sync.
func (r *UpdateRepository) PutUpdates(ctx context.Context, records ...*core.UpdateRecord) error {
	for _, record := range records {
		if err := core.ValidateUpdateRecord(record); err != nil {
			return fmt.Errorf("record %q: %w", record.ID, err)
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := makeUpdateKey(record.ID)

			old, err := readUpdate(tx, key)
			if err != nil {
				return err
			}
			if old != nil && old.Product != record.Product {
				if err := tx.Delete(makeProductIndexKey(old.Product, old.ID)); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalUpdateRecord(record)); err != nil {
				return err
			}
			if err := tx.Set(makeProductIndexKey(record.Product, record.ID), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetUpdate retrieves a single record by ID.
func (r *UpdateRepository) GetUpdate(ctx context.Context, id string) (*core.UpdateRecord, error) {
	var record *core.UpdateRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = readUpdate(tx, makeUpdateKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}
	return record, nil
}

// DeleteUpdates removes records and their index entries.
func (r *UpdateRepository) DeleteUpdates(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeUpdateKey(id)
			old, err := readUpdate(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				continue
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeProductIndexKey(old.Product, old.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// QueryLocal returns records for the given products filtered by severity and source.
func (r *UpdateRepository) QueryLocal(ctx context.Context, productIDs []string, severity core.Severity, source core.SourceID) ([]*core.UpdateRecord, error) {
	var records []*core.UpdateRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		if len(productIDs) == 0 {
			records, err = readAll(tx)
			return err
		}
		records, err = readByProducts(ctx, tx, productIDs)
		return err
	}, false)
	if err != nil {
		return nil, err
	}

	filtered := records[:0]
	for _, record := range records {
		if severity != core.SeverityNone && record.Severity != severity {
			continue
		}
		if source != core.SourceNone && record.Source != source {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}

// AllUpdates returns every stored record ordered by ID.
func (r *UpdateRepository) AllUpdates(ctx context.Context) ([]*core.UpdateRecord, error) {
	var records []*core.UpdateRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		records, err = readAll(tx)
		return err
	}, false)
	return records, err
}

// Count returns the number of stored records.
func (r *UpdateRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, updateKeyPrefix(), true, func([]byte, []byte) error {
			count++
			return nil
		})
	}, false)
	return count, err
}

func readAll(tx *badger.Txn) ([]*core.UpdateRecord, error) {
	var records []*core.UpdateRecord
	err := scanPrefix(tx, updateKeyPrefix(), false, func(_, val []byte) error {
		record, err := storage.UnmarshalUpdateRecord(val)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	return records, err
}

func readByProducts(ctx context.Context, tx *badger.Txn, productIDs []string) ([]*core.UpdateRecord, error) {
	seen := make(map[string]bool)
	var records []*core.UpdateRecord
	for _, productID := range productIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var ids []string
		err := scanPrefix(tx, makePartialProductIndexKey(productID), true, func(key, _ []byte) error {
			ids = append(ids, recordIDFromIndexKey(key))
			return nil
		})
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			record, err := readUpdate(tx, makeUpdateKey(id))
			if err != nil {
				return nil, err
			}
			if record != nil {
				records = append(records, record)
			}
		}
	}
	return records, nil
}

// readUpdate returns nil, nil when the key is absent.
func readUpdate(tx *badger.Txn, key []byte) (*core.UpdateRecord, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record *core.UpdateRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalUpdateRecord(val)
		return unmarshalErr
	})
	return record, err
}
