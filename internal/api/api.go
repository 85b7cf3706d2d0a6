// Package api adapts the database to its two calling conventions: public
// read methods and generic writes that propagate errors, and admin
// wrappers that never fail, translating every outcome into a status-coded
// result for inline rendering.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/kmci-church/cms/internal/database"
	"github.com/kmci-church/cms/internal/feed"
	"github.com/kmci-church/cms/internal/logger"
	"github.com/kmci-church/cms/internal/model"
)

// API is the public read/write façade used by the HTTP handlers.
type API struct {
	db       *database.DB
	importer *feed.Importer
	latency  time.Duration
}

// Option configures the API.
type Option func(*API)

// WithLatency adds a fixed delay in front of every call, mimicking the
// network round trip of the original client-side deployment. Zero by
// default.
func WithLatency(d time.Duration) Option {
	return func(a *API) { a.latency = d }
}

// WithImporter sets the feed importer behind AdminImportFeed.
func WithImporter(imp *feed.Importer) Option {
	return func(a *API) { a.importer = imp }
}

// New creates the façade over db.
func New(db *database.DB, opts ...Option) *API {
	a := &API{db: db}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) delay(ctx context.Context) error {
	if a.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(a.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- Public reads ---

func (a *API) getItems(ctx context.Context, category model.Category) ([]model.Item, error) {
	if err := a.delay(ctx); err != nil {
		return nil, err
	}
	items, err := a.db.GetItems(ctx, category)
	if err != nil {
		logger.Error("load "+category.StoreName()+" failed", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("load %s: %w", category.StoreName(), err)
	}
	return items, nil
}

// GetEvents returns every event, newest first.
func (a *API) GetEvents(ctx context.Context) ([]model.Item, error) {
	return a.getItems(ctx, model.CategoryEvent)
}

// GetSermons returns every sermon, newest first.
func (a *API) GetSermons(ctx context.Context) ([]model.Item, error) {
	return a.getItems(ctx, model.CategorySermon)
}

// GetNews returns every announcement, newest first.
func (a *API) GetNews(ctx context.Context) ([]model.Item, error) {
	return a.getItems(ctx, model.CategoryAnnouncement)
}

// --- Generic writes, error-propagating ---

// CreateItem persists a new record and returns its assigned id.
func (a *API) CreateItem(ctx context.Context, category model.Category, item model.Item) (string, error) {
	if err := a.delay(ctx); err != nil {
		return "", err
	}
	return a.db.CreateItem(ctx, category, item)
}

// UpdateItem applies a partial update to an existing record.
func (a *API) UpdateItem(ctx context.Context, category model.Category, id string, patch model.Patch) error {
	if err := a.delay(ctx); err != nil {
		return err
	}
	return a.db.UpdateItem(ctx, category, id, patch)
}

// DeleteItem removes a record.
func (a *API) DeleteItem(ctx context.Context, category model.Category, id string) error {
	if err := a.delay(ctx); err != nil {
		return err
	}
	return a.db.DeleteItem(ctx, category, id)
}

// --- Admin wrappers, status-coded ---

// ErrorInfo is the admin-facing error payload.
type ErrorInfo struct {
	Code    database.Code `json:"code"`
	Message string        `json:"message"`
}

// Result is the admin contract: a status code plus either data or an
// error, never a Go error. The admin surface renders these inline.
type Result struct {
	Status int        `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

func ok(data any) Result {
	return Result{Status: 200, Data: data}
}

func fail(err error) Result {
	code := database.ErrCode(err)
	status := 500
	switch {
	case code.Validation():
		status = 400
	case code == database.CodeNotFound:
		status = 404
	}
	if code == "" {
		code = "INTERNAL"
	}
	return Result{Status: status, Error: &ErrorInfo{Code: code, Message: err.Error()}}
}

// AdminGetItems lists a category for the admin tables.
func (a *API) AdminGetItems(ctx context.Context, category model.Category) Result {
	items, err := a.getItems(ctx, category)
	if err != nil {
		return fail(err)
	}
	return ok(items)
}

// AdminCreateItem creates a record, reporting validation inline.
func (a *API) AdminCreateItem(ctx context.Context, category model.Category, item model.Item) Result {
	id, err := a.CreateItem(ctx, category, item)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]string{"id": id})
}

// AdminUpdateItem applies a partial update, reporting NOT_FOUND inline.
func (a *API) AdminUpdateItem(ctx context.Context, category model.Category, id string, patch model.Patch) Result {
	if err := a.UpdateItem(ctx, category, id, patch); err != nil {
		return fail(err)
	}
	return ok(nil)
}

// AdminDeleteItem removes a record.
func (a *API) AdminDeleteItem(ctx context.Context, category model.Category, id string) Result {
	if err := a.DeleteItem(ctx, category, id); err != nil {
		return fail(err)
	}
	return ok(nil)
}

// AdminImportItems inserts a batch all-or-nothing and reports the count
// written.
func (a *API) AdminImportItems(ctx context.Context, category model.Category, items []model.Item) Result {
	if err := a.delay(ctx); err != nil {
		return fail(err)
	}
	count, err := a.db.CreateItems(ctx, category, items)
	if err != nil {
		return fail(err)
	}
	return ok(map[string]int{"count": count})
}

// AdminImportFeed pulls a podcast/video feed and inserts its entries as
// sermons in one batch.
func (a *API) AdminImportFeed(ctx context.Context, url string) Result {
	if a.importer == nil {
		return fail(fmt.Errorf("feed import not configured"))
	}
	if err := a.delay(ctx); err != nil {
		return fail(err)
	}
	sermons, err := a.importer.FetchSermons(ctx, url)
	if err != nil {
		logger.Error("feed import failed", map[string]any{"url": url, "error": err.Error()})
		return fail(err)
	}
	count, err := a.db.CreateItems(ctx, model.CategorySermon, sermons)
	if err != nil {
		return fail(err)
	}
	logger.Access("feed import", map[string]any{"url": url, "count": count})
	return ok(map[string]int{"count": count})
}
