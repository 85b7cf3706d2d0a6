package api_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmci-church/cms/internal/api"
	"github.com/kmci-church/cms/internal/database"
	"github.com/kmci-church/cms/internal/kvstore"
	"github.com/kmci-church/cms/internal/logger"
	"github.com/kmci-church/cms/internal/model"
)

func TestMain(m *testing.M) {
	logger.Init(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newTestAPI(t *testing.T, opts ...api.Option) *api.API {
	t.Helper()
	kv := kvstore.New(t.TempDir(), kvstore.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return api.New(database.New(database.NewFallback(kv)), opts...)
}

func validEvent() model.Item {
	return model.Item{
		Title: "Conference", Date: "2024-08-15", Description: "Annual meeting",
		Time: "10:00 AM", Location: "Main Hall",
	}
}

func TestAdminGetItemsReturnsStatus200AndData(t *testing.T) {
	a := newTestAPI(t)
	require.NoError(t, a.Seed(context.Background()))

	res := a.AdminGetItems(context.Background(), model.CategoryEvent)
	assert.Equal(t, 200, res.Status)
	assert.Nil(t, res.Error)
	items, ok := res.Data.([]model.Item)
	require.True(t, ok)
	assert.NotEmpty(t, items)
}

func TestAdminCreateItemValidationFailsWith400(t *testing.T) {
	a := newTestAPI(t)

	invalid := model.Item{Title: "Invalid Event", Description: "Missing date"}
	res := a.AdminCreateItem(context.Background(), model.CategoryEvent, invalid)
	assert.Equal(t, 400, res.Status)
	require.NotNil(t, res.Error)
	assert.Equal(t, database.CodeDateRequired, res.Error.Code)

	// No partial write.
	list := a.AdminGetItems(context.Background(), model.CategoryEvent)
	assert.Empty(t, list.Data)
}

func TestAdminCreateAndDeleteRoundtrip(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	created := a.AdminCreateItem(ctx, model.CategoryAnnouncement, model.Item{
		Title: "News A", Date: "2024-01-03", Description: "D",
	})
	require.Equal(t, 200, created.Status)
	data, ok := created.Data.(map[string]string)
	require.True(t, ok)
	require.NotEmpty(t, data["id"])

	deleted := a.AdminDeleteItem(ctx, model.CategoryAnnouncement, data["id"])
	assert.Equal(t, 200, deleted.Status)

	list := a.AdminGetItems(ctx, model.CategoryAnnouncement)
	assert.Empty(t, list.Data)
}

func TestAdminUpdateMissingItemIs404(t *testing.T) {
	a := newTestAPI(t)

	featured := true
	res := a.AdminUpdateItem(context.Background(), model.CategorySermon, "missing", model.Patch{Featured: &featured})
	assert.Equal(t, 404, res.Status)
	require.NotNil(t, res.Error)
	assert.Equal(t, database.CodeNotFound, res.Error.Code)
}

func TestAdminImportItemsReportsCount(t *testing.T) {
	a := newTestAPI(t)

	res := a.AdminImportItems(context.Background(), model.CategoryEvent, []model.Item{
		validEvent(), validEvent(),
	})
	require.Equal(t, 200, res.Status)
	data, ok := res.Data.(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 2, data["count"])
}

func TestCreateItemPropagatesValidationError(t *testing.T) {
	a := newTestAPI(t)

	_, err := a.CreateItem(context.Background(), model.CategorySermon, model.Item{
		Title: "Invalid Sermon", Description: "Missing speaker", Date: "2024-01-01",
	})
	require.Error(t, err)
	assert.Equal(t, database.CodeSpeakerRequired, database.ErrCode(err))
}

func TestPublicReadsAfterSeedHaveDescriptions(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()
	require.NoError(t, a.Seed(ctx))

	for name, get := range map[string]func(context.Context) ([]model.Item, error){
		"events":  a.GetEvents,
		"sermons": a.GetSermons,
		"news":    a.GetNews,
	} {
		items, err := get(ctx)
		require.NoError(t, err, name)
		require.NotEmpty(t, items, name)
		for _, it := range items {
			assert.NotEmpty(t, it.Description, name)
			assert.NotEmpty(t, it.ID, name)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, a.Seed(ctx))
	first, err := a.GetEvents(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Seed(ctx))
	second, err := a.GetEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}

func TestLatencyDelaysCalls(t *testing.T) {
	a := newTestAPI(t, api.WithLatency(30*time.Millisecond))

	start := time.Now()
	_, err := a.GetEvents(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLatencyHonorsCancelledContext(t *testing.T) {
	a := newTestAPI(t, api.WithLatency(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.GetEvents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
