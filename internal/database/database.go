package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kmci-church/cms/internal/kvstore"
	"github.com/kmci-church/cms/internal/logger"
	"github.com/kmci-church/cms/internal/model"
)

// DB is the category-scoped persistence façade. Every write runs the same
// pipeline regardless of backend: validate, normalize, assign an id, then
// persist under the retry schedule. Reads are never retried.
type DB struct {
	store    Store
	backoffs []time.Duration
	newID    func() string
}

// New wraps a backend store with the validation/retry pipeline.
func New(store Store) *DB {
	return &DB{
		store:    store,
		backoffs: writeBackoffs,
		newID:    uuid.NewString,
	}
}

// Open selects the backend once: the SQLite database at path, or the
// key/value fallback when SQLite cannot be opened there. The selection is
// permanent for the returned DB's lifetime; there is no later upgrade.
func Open(path string, kv *kvstore.Store) *DB {
	if path != "" {
		store, err := NewSQLite(path)
		if err == nil {
			return New(store)
		}
		logger.Warn("sqlite unavailable, using key/value fallback", map[string]any{
			"path": path, "error": err.Error(),
		})
	}
	return New(NewFallback(kv))
}

// Close releases the underlying store.
func (db *DB) Close() error {
	return db.store.Close()
}

// BackendType reports which backend was selected at open time.
func (db *DB) BackendType() string {
	return db.store.BackendType()
}

// GetItems returns all records in the category's collection.
func (db *DB) GetItems(ctx context.Context, category model.Category) ([]model.Item, error) {
	items, err := db.store.GetItems(ctx, category)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// CreateItem validates and normalizes the payload, assigns a fresh id,
// and persists the record. Nothing is written when validation fails.
func (db *DB) CreateItem(ctx context.Context, category model.Category, item model.Item) (string, error) {
	if err := validateItem(category, item); err != nil {
		return "", err
	}
	record := normalizeItem(category, item)
	record.ID = db.newID()

	logger.Access("db create", map[string]any{"category": category, "id": record.ID})
	err := withRetry(ctx, db.backoffs, func() error {
		return db.store.InsertItem(ctx, record)
	})
	if err != nil {
		logger.Error("db create failed", map[string]any{"category": category, "error": err.Error()})
		return "", wrapError(CodeCreateFailed, "failed to create item", err)
	}
	return record.ID, nil
}

// UpdateItem merges the patch into the existing record and persists the
// renormalized result. The target's category never changes.
func (db *DB) UpdateItem(ctx context.Context, category model.Category, id string, patch model.Patch) error {
	existing, err := db.store.GetItems(ctx, category)
	if err != nil {
		return wrapError(CodeUpdateFailed, "failed to load items", err)
	}
	var current *model.Item
	for i := range existing {
		if existing[i].ID == id {
			current = &existing[i]
			break
		}
	}
	if current == nil {
		return newError(CodeNotFound, "item not found")
	}
	merged := normalizeItem(category, patch.Apply(*current))
	merged.ID = id

	logger.Access("db update", map[string]any{"category": category, "id": id})
	err = withRetry(ctx, db.backoffs, func() error {
		return db.store.PutItem(ctx, merged)
	})
	if err != nil {
		logger.Error("db update failed", map[string]any{"category": category, "id": id, "error": err.Error()})
		return wrapError(CodeUpdateFailed, "failed to update item", err)
	}
	return nil
}

// DeleteItem removes the record if present. Deletion is immediate and
// permanent; deleting an absent id is not an error.
func (db *DB) DeleteItem(ctx context.Context, category model.Category, id string) error {
	logger.Access("db delete", map[string]any{"category": category, "id": id})
	err := withRetry(ctx, db.backoffs, func() error {
		return db.store.DeleteItem(ctx, category, id)
	})
	if err != nil {
		logger.Error("db delete failed", map[string]any{"category": category, "id": id, "error": err.Error()})
		return wrapError(CodeDeleteFailed, "failed to delete item", err)
	}
	return nil
}

// CreateItems inserts a batch all-or-nothing: every payload is validated
// up front, and the first invalid one fails the call with zero records
// written. On success it returns the number of records persisted.
func (db *DB) CreateItems(ctx context.Context, category model.Category, items []model.Item) (int, error) {
	for _, it := range items {
		if err := validateItem(category, it); err != nil {
			return 0, err
		}
	}
	records := make([]model.Item, len(items))
	for i, it := range items {
		records[i] = normalizeItem(category, it)
		records[i].ID = db.newID()
	}

	logger.Access("db batch create", map[string]any{"category": category, "count": len(records)})
	err := withRetry(ctx, db.backoffs, func() error {
		return db.store.InsertItems(ctx, category, records)
	})
	if err != nil {
		logger.Error("db batch create failed", map[string]any{"category": category, "error": err.Error()})
		return 0, wrapError(CodeTransactionFailed, "failed to commit batch", err)
	}
	return len(records), nil
}
