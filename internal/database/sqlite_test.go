package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmci-church/cms/internal/model"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteCollectionsAreIndependent(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	event := normalizeItem(model.CategoryEvent, validEvent())
	event.ID = "ev-1"
	require.NoError(t, store.InsertItem(ctx, event))

	sermons, err := store.GetItems(ctx, model.CategorySermon)
	require.NoError(t, err)
	assert.Empty(t, sermons)

	events, err := store.GetItems(ctx, model.CategoryEvent)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "Main Hall", events[0].Location)
}

func TestSQLiteBatchRollsBackOnMidBatchFailure(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	a := normalizeItem(model.CategorySermon, validSermon())
	a.ID = "dup"
	b := normalizeItem(model.CategorySermon, validSermon())
	b.ID = "dup" // primary key collision fails the second insert

	err := store.InsertItems(ctx, model.CategorySermon, []model.Item{a, b})
	require.Error(t, err)

	items, err := store.GetItems(ctx, model.CategorySermon)
	require.NoError(t, err)
	assert.Empty(t, items, "failed batch must leave nothing behind")
}

func TestSQLiteDeleteIsDirect(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	item := normalizeItem(model.CategoryAnnouncement, model.Item{
		Title: "News", Date: "2024-09-15", Description: "D",
	})
	item.ID = "n-1"
	require.NoError(t, store.InsertItem(ctx, item))
	require.NoError(t, store.DeleteItem(ctx, model.CategoryAnnouncement, "n-1"))

	items, err := store.GetItems(ctx, model.CategoryAnnouncement)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Deleting an absent id is not an error.
	assert.NoError(t, store.DeleteItem(ctx, model.CategoryAnnouncement, "n-1"))
}

func TestSQLitePersistsFeaturedFlag(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	item := normalizeItem(model.CategoryEvent, validEvent())
	item.ID = "ev-f"
	item.Featured = true
	require.NoError(t, store.InsertItem(ctx, item))

	items, err := store.GetItems(ctx, model.CategoryEvent)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Featured)

	items[0].Featured = false
	require.NoError(t, store.PutItem(ctx, items[0]))

	items, err = store.GetItems(ctx, model.CategoryEvent)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Featured)
}
