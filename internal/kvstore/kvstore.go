// Package kvstore provides safe, namespaced key/value persistence with
// graceful degradation. Values are stored as JSON files in a single
// directory; a fixed namespace prefix keeps this application's keys apart
// from anything else sharing the directory.
package kvstore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultNamespace prefixes every key this application writes.
const DefaultNamespace = "kmci_app_v1_"

const probeKey = "__probe__"

// Store is a namespaced key/value store backed by a directory of JSON
// files. All operations degrade to defaults instead of failing: reads
// fall back to the caller's value and writes report success as a bool.
type Store struct {
	dir       string
	namespace string
	quota     int64 // max serialized bytes per value, 0 = unlimited
	supported bool
	logger    *slog.Logger

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace overrides the default key prefix.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// WithQuota caps the serialized size of a single value. Writes over the
// quota fail without touching the previously stored value.
func WithQuota(bytes int64) Option {
	return func(s *Store) { s.quota = bytes }
}

// WithLogger sets the logger used for degraded-operation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New opens a store rooted at dir. It never fails: if the directory
// cannot be created or written, the store is marked unsupported and every
// operation becomes a no-op returning defaults.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:       dir,
		namespace: DefaultNamespace,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.supported = s.probe()
	if !s.supported {
		s.logger.Warn("kvstore unavailable, operations degrade to defaults", "dir", dir)
	}
	return s
}

// Supported reports whether the backing directory is usable at all.
func (s *Store) Supported() bool {
	return s.supported
}

// probe checks the directory is writable with a write/remove round trip.
func (s *Store) probe() bool {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false
	}
	path := s.path(probeKey)
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		return false
	}
	return os.Remove(path) == nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, s.namespace+key+".json")
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`)
}

// GetItem reads the value stored under key into dst. It returns false and
// leaves dst untouched when the key is absent, the store is unsupported,
// or the stored value cannot be decoded. It never returns an error.
func (s *Store) GetItem(key string, dst any) bool {
	if !s.supported || !validKey(key) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Error("kvstore read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Error("kvstore value corrupt", "key", key, "error", err)
		return false
	}
	return true
}

// SetItem serializes v to JSON and stores it under key, replacing the
// file atomically. It returns false on any failure, including quota
// violations, after logging the condition. It never panics or errors.
func (s *Store) SetItem(key string, v any) bool {
	if !s.supported || !validKey(key) {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("kvstore serialize failed", "key", key, "error", err)
		return false
	}
	if s.quota > 0 && int64(len(data)) > s.quota {
		s.logger.Error("kvstore quota exceeded", "key", key, "size", len(data), "quota", s.quota)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, s.namespace+key+".tmp*")
	if err != nil {
		s.logger.Error("kvstore write failed", "key", key, "error", err)
		return false
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.logger.Error("kvstore write failed", "key", key, "error", err)
		return false
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("kvstore write failed", "key", key, "error", err)
		return false
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("kvstore write failed", "key", key, "error", err)
		return false
	}
	return true
}

// RemoveItem deletes the value stored under key. Removing an absent key
// succeeds.
func (s *Store) RemoveItem(key string) bool {
	if !s.supported || !validKey(key) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("kvstore remove failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key under this store's namespace, leaving any
// unrelated files in the same directory untouched.
func (s *Store) Clear() {
	if !s.supported {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("kvstore clear failed", "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), s.namespace) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.logger.Error("kvstore clear failed", "file", e.Name(), "error", err)
		}
	}
}
