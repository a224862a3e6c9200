// Package cache stores small JSON values on disk with a TTL.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/aaearon/tabrotate/internal/config"
)

// entry is the on-disk envelope for cached data.
type entry[T any] struct {
	CachedAt time.Time `json:"cached_at"`
	Value    T         `json:"value"`
}

// Store manages a directory of JSON cache files with TTL expiry.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time // injectable clock for testing
}

// NewStore creates a Store with the given directory and TTL.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads a cached value for key into dst. Returns true on hit, false on
// miss/expiry/error. Expired and unreadable entries are removed so stale
// session tokens do not linger on disk.
func Get[T any](s *Store, key string, dst *T) bool {
	e, ok := read[T](s, key)
	if !ok {
		return false
	}
	if age := s.now().Sub(e.CachedAt); age < 0 || age > s.ttl {
		Invalidate(s, key)
		return false
	}
	*dst = e.Value
	return true
}

func read[T any](s *Store, key string) (entry[T], bool) {
	var e entry[T]
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return e, false
	}
	if err := json.Unmarshal(data, &e); err != nil {
		Invalidate(s, key)
		return e, false
	}
	return e, true
}

// Set writes a value to the cache under key. Creates the directory if needed.
// The file is written to a temporary name and renamed into place, so readers
// never see a partial entry.
func Set[T any](s *Store, key string, value T) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(entry[T]{CachedAt: s.now(), Value: value})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// CreateTemp opens the file 0600.
	return os.Rename(tmp.Name(), s.path(key))
}

// Invalidate removes a cached entry by key.
func Invalidate(s *Store, key string) {
	_ = os.Remove(s.path(key))
}

// CacheDir returns the default cache directory path (~/.tabrotate/cache/).
func CacheDir() (string, error) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "cache"), nil
}
