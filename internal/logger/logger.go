// Package logger keeps an append-only diagnostic trail: a capped ring of
// log entries persisted through the key/value store, mirrored to slog.
// Logging never returns an error and never blocks callers on a failed
// write; persistence problems in the logger itself are swallowed.
package logger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kmci-church/cms/internal/kvstore"
)

// Level classifies a log entry.
type Level string

const (
	LevelInfo   Level = "INFO"
	LevelWarn   Level = "WARN"
	LevelError  Level = "ERROR"
	LevelAccess Level = "ACCESS"
)

// Entry is a single persisted log record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

const (
	storageKey = "system_logs"
	// MaxEntries caps the persisted ring; oldest entries are evicted first.
	MaxEntries = 1000
)

var (
	mu     sync.Mutex
	store  *kvstore.Store
	mirror *slog.Logger
)

// Init binds the logger to its persistent store and console mirror.
// Before Init, entries only reach the default slog logger.
func Init(s *kvstore.Store, l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	store = s
	mirror = l
}

// Log records an entry at the given level.
func Log(level Level, message string, details map[string]any) {
	entry := Entry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Details:   details,
	}

	mu.Lock()
	defer mu.Unlock()

	echo(level, message, details)
	if store == nil {
		return
	}
	var entries []Entry
	store.GetItem(storageKey, &entries)
	entries = append([]Entry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	// A failed write drops the entry from history; the mirror already saw it.
	store.SetItem(storageKey, entries)
}

func echo(level Level, message string, details map[string]any) {
	l := mirror
	if l == nil {
		l = slog.Default()
	}
	args := make([]any, 0, 2*len(details))
	for k, v := range details {
		args = append(args, k, v)
	}
	switch level {
	case LevelWarn:
		l.Warn(message, args...)
	case LevelError:
		l.Error(message, args...)
	case LevelAccess:
		l.Info(message, append([]any{"access", true}, args...)...)
	default:
		l.Info(message, args...)
	}
}

// Info records an informational entry.
func Info(message string, details map[string]any) { Log(LevelInfo, message, details) }

// Warn records a warning entry.
func Warn(message string, details map[string]any) { Log(LevelWarn, message, details) }

// Error records an error entry.
func Error(message string, details map[string]any) { Log(LevelError, message, details) }

// Access records an audit-style entry for data-changing operations.
func Access(message string, details map[string]any) { Log(LevelAccess, message, details) }

// History returns the persisted entries, newest first.
func History() []Entry {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	var entries []Entry
	store.GetItem(storageKey, &entries)
	return entries
}

// ClearHistory wipes the persisted log.
func ClearHistory() {
	mu.Lock()
	defer mu.Unlock()
	if store != nil {
		store.RemoveItem(storageKey)
	}
}
