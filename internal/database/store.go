// Package database provides category-scoped persistence for content
// records: validation, normalization, id assignment, and retry over one
// of two interchangeable storage backends.
package database

import (
	"context"

	"github.com/kmci-church/cms/internal/model"
)

// Store is the low-level persistence contract. Both the SQLite and the
// key/value fallback implementations satisfy it; the backend is picked
// once when the database is opened and never branched on elsewhere.
type Store interface {
	Close() error

	// BackendType returns the name of the storage backend
	// ("SQLite" or "Fallback").
	BackendType() string

	// GetItems returns every record in the category's collection.
	// Ordering beyond the backend's insertion order is not guaranteed.
	GetItems(ctx context.Context, category model.Category) ([]model.Item, error)

	// InsertItem adds one record. The record's ID is already assigned.
	InsertItem(ctx context.Context, item model.Item) error

	// PutItem replaces the record with the same ID in the item's category.
	PutItem(ctx context.Context, item model.Item) error

	// DeleteItem removes the record with the given ID, if present.
	DeleteItem(ctx context.Context, category model.Category, id string) error

	// InsertItems adds a batch atomically: either every record is
	// persisted or none are.
	InsertItems(ctx context.Context, category model.Category, items []model.Item) error
}
