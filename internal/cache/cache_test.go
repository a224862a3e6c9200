package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fixedClock returns a Store whose clock reads now.
func fixedClock(dir string, ttl time.Duration, now time.Time) *Store {
	return &Store{dir: dir, ttl: ttl, now: func() time.Time { return now }}
}

func TestGet_Miss(t *testing.T) {
	s := NewStore(t.TempDir(), time.Hour)

	var out string
	if Get(s, "nonexistent", &out) {
		t.Fatal("expected miss for nonexistent key")
	}
}

func TestSetAndGet_Struct(t *testing.T) {
	type tokenEntry struct {
		Server string
		Token  string
		Seen   []string
	}

	s := NewStore(t.TempDir(), time.Hour)
	in := tokenEntry{Server: "https://tableau.example.com", Token: "abc", Seen: []string{"finance", "ops"}}
	if err := Set(s, "entry", in); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var out tokenEntry
	if !Get(s, "entry", &out) {
		t.Fatal("expected cache hit")
	}
	if out.Server != in.Server || out.Token != in.Token || len(out.Seen) != 2 || out.Seen[1] != "ops" {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestGet_TTLBoundaries(t *testing.T) {
	written := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ttl := 2 * time.Hour

	tests := []struct {
		name    string
		readAt  time.Time
		wantHit bool
	}{
		{"immediately", written, true},
		{"just inside ttl", written.Add(ttl - time.Second), true},
		{"exactly at ttl", written.Add(ttl), true},
		{"past ttl", written.Add(ttl + time.Second), false},
		{"clock went backwards", written.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := Set(fixedClock(dir, ttl, written), "k", "v"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			var out string
			hit := Get(fixedClock(dir, ttl, tt.readAt), "k", &out)
			if hit != tt.wantHit {
				t.Errorf("Get() hit = %v, want %v", hit, tt.wantHit)
			}

			_, statErr := os.Stat(filepath.Join(dir, "k.json"))
			if tt.wantHit && statErr != nil {
				t.Errorf("entry should still exist: %v", statErr)
			}
			if !tt.wantHit && !os.IsNotExist(statErr) {
				t.Errorf("expired entry should be removed, stat err = %v", statErr)
			}
		})
	}
}

func TestGet_CorruptEntryIsRemoved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt entry: %v", err)
	}

	var out string
	if Get(NewStore(dir, time.Hour), "broken", &out) {
		t.Fatal("expected miss for corrupt entry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("corrupt entry should be removed, stat err = %v", err)
	}
}

func TestSet_CreatesPrivateFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s := NewStore(dir, time.Hour)

	if err := Set(s, "session", "secret-token"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to be created: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("dir permissions = %o, want 700", perm)
	}

	fileInfo, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("expected cache file: %v", err)
	}
	if perm := fileInfo.Mode().Perm(); perm != 0o600 {
		t.Errorf("file permissions = %o, want 600", perm)
	}
}

func TestSet_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, time.Hour)

	for _, v := range []string{"first", "second"} {
		if err := Set(s, "k", v); err != nil {
			t.Fatalf("Set(%q) error = %v", v, err)
		}
	}

	var out string
	if !Get(s, "k", &out) || out != "second" {
		t.Errorf("Get() = %q, want %q", out, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only k.json, got %v", names)
	}
}

func TestInvalidate(t *testing.T) {
	s := NewStore(t.TempDir(), time.Hour)
	if err := Set(s, "k", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	Invalidate(s, "k")

	var out int
	if Get(s, "k", &out) {
		t.Error("expected miss after Invalidate")
	}
	// Removing a missing key is a no-op.
	Invalidate(s, "k")
}

func TestCacheDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error = %v", err)
	}
	if want := filepath.Join("/home/tester", ".tabrotate", "cache"); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}
