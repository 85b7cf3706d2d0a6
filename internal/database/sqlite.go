package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kmci-church/cms/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the primary backend: one database file with a table per
// category, each keyed by the record's id.
type SQLiteStore struct {
	conn *sql.DB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// tableFor whitelists table names per category; every query builds its
// table name through this map, never from caller input.
var tableFor = map[model.Category]string{
	model.CategoryEvent:        "events",
	model.CategorySermon:       "sermons",
	model.CategoryAnnouncement: "news",
}

const itemColumns = "id, title, date, description, featured, time, location, speaker, duration, thumbnail, video_url, image_url"

// NewSQLite opens or creates the SQLite database at the given path.
func NewSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// BackendType returns the storage backend name.
func (s *SQLiteStore) BackendType() string {
	return "SQLite"
}

func (s *SQLiteStore) migrate() error {
	// All three collections share one column set; fields foreign to a
	// category are stored empty, matching the normalized record shape.
	for _, table := range tableFor {
		schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			description TEXT NOT NULL,
			featured INTEGER NOT NULL DEFAULT 0,
			time TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			speaker TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			thumbnail TEXT NOT NULL DEFAULT '',
			video_url TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT ''
		);`, table)
		if _, err := s.conn.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// GetItems returns all records in the category's table.
func (s *SQLiteStore) GetItems(ctx context.Context, category model.Category) ([]model.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY date DESC, rowid DESC", itemColumns, tableFor[category])
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it := model.Item{Category: category}
		var featured int
		if err := rows.Scan(&it.ID, &it.Title, &it.Date, &it.Description, &featured,
			&it.Time, &it.Location, &it.Speaker, &it.Duration, &it.Thumbnail,
			&it.VideoURL, &it.ImageURL); err != nil {
			return nil, err
		}
		it.Featured = featured != 0
		items = append(items, it)
	}
	return items, rows.Err()
}

func insertArgs(it model.Item) []any {
	featured := 0
	if it.Featured {
		featured = 1
	}
	return []any{it.ID, it.Title, it.Date, it.Description, featured,
		it.Time, it.Location, it.Speaker, it.Duration, it.Thumbnail,
		it.VideoURL, it.ImageURL}
}

func insertQuery(category model.Category) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		tableFor[category], itemColumns)
}

// InsertItem adds a single record.
func (s *SQLiteStore) InsertItem(ctx context.Context, item model.Item) error {
	_, err := s.conn.ExecContext(ctx, insertQuery(item.Category), insertArgs(item)...)
	return err
}

// PutItem replaces the record with the same id.
func (s *SQLiteStore) PutItem(ctx context.Context, item model.Item) error {
	query := fmt.Sprintf(`UPDATE %s SET title = ?, date = ?, description = ?, featured = ?,
		time = ?, location = ?, speaker = ?, duration = ?, thumbnail = ?, video_url = ?, image_url = ?
		WHERE id = ?`, tableFor[item.Category])
	featured := 0
	if item.Featured {
		featured = 1
	}
	_, err := s.conn.ExecContext(ctx, query, item.Title, item.Date, item.Description, featured,
		item.Time, item.Location, item.Speaker, item.Duration, item.Thumbnail,
		item.VideoURL, item.ImageURL, item.ID)
	return err
}

// DeleteItem removes the single row directly.
func (s *SQLiteStore) DeleteItem(ctx context.Context, category model.Category, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", tableFor[category])
	_, err := s.conn.ExecContext(ctx, query, id)
	return err
}

// InsertItems writes the whole batch inside one transaction so a
// mid-batch failure rolls everything back.
func (s *SQLiteStore) InsertItems(ctx context.Context, category model.Category, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertQuery(category))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, insertArgs(it)...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
