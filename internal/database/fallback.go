package database

import (
	"context"
	"sync"

	"github.com/kmci-church/cms/internal/kvstore"
	"github.com/kmci-church/cms/internal/model"
)

// FallbackStore keeps each category as one JSON array in the key/value
// store, used for the lifetime of the process when the SQLite backend
// cannot be opened. Mutations are whole-collection read-modify-write; a
// batch insert lands in a single write, simulating atomicity. The mutex
// serializes mutations within this process; cross-process writers remain
// last-write-wins.
type FallbackStore struct {
	kv *kvstore.Store
	mu sync.Mutex
}

// Ensure FallbackStore implements Store.
var _ Store = (*FallbackStore)(nil)

// NewFallback wraps the given key/value store.
func NewFallback(kv *kvstore.Store) *FallbackStore {
	return &FallbackStore{kv: kv}
}

// Close is a no-op; the key/value store holds no open handles.
func (s *FallbackStore) Close() error {
	return nil
}

// BackendType returns the storage backend name.
func (s *FallbackStore) BackendType() string {
	return "Fallback"
}

func (s *FallbackStore) load(category model.Category) []model.Item {
	items := []model.Item{}
	s.kv.GetItem(category.StoreName(), &items)
	return items
}

func (s *FallbackStore) save(category model.Category, items []model.Item) error {
	if !s.kv.SetItem(category.StoreName(), items) {
		return newError(CodeSetFailed, "failed to persist "+category.StoreName())
	}
	return nil
}

// GetItems returns all records in the category's collection, newest first.
func (s *FallbackStore) GetItems(ctx context.Context, category model.Category) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(category), nil
}

// InsertItem prepends one record and rewrites the collection.
func (s *FallbackStore) InsertItem(ctx context.Context, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load(item.Category)
	return s.save(item.Category, append([]model.Item{item}, items...))
}

// PutItem replaces the record with the same id and rewrites the collection.
func (s *FallbackStore) PutItem(ctx context.Context, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load(item.Category)
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
		}
	}
	return s.save(item.Category, items)
}

// DeleteItem filters out the record and rewrites the collection.
func (s *FallbackStore) DeleteItem(ctx context.Context, category model.Category, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load(category)
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return s.save(category, kept)
}

// InsertItems computes the new collection in memory and lands it in a
// single write, so a failed batch leaves the prior collection intact.
func (s *FallbackStore) InsertItems(ctx context.Context, category model.Category, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.load(category)
	return s.save(category, append(append([]model.Item{}, items...), existing...))
}
