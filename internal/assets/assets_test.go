package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveAbsolute(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "wall.png")
	touch(t, file)

	r := NewResolver()
	got, err := r.Resolve(file)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != file {
		t.Errorf("got %s, want %s", got, file)
	}

	if _, err := r.Resolve(filepath.Join(dir, "missing.png")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}
}

func TestResolvePriority(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	touch(t, filepath.Join(low, "tex", "a.png"))
	touch(t, filepath.Join(high, "tex", "a.png"))
	touch(t, filepath.Join(low, "tex", "b.png"))

	r := NewResolver()
	if err := r.AddSearchPath(low); err != nil {
		t.Fatal(err)
	}
	if err := r.AddSearchPath(high); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"tex/a.png", filepath.Join(high, "tex", "a.png")},
		{"tex/b.png", filepath.Join(low, "tex", "b.png")},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.path)
		if err != nil {
			t.Errorf("Resolve(%s): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}

	if paths := r.SearchPaths(); len(paths) != 2 || paths[0] != high {
		t.Errorf("SearchPaths() = %v, want %s first", paths, high)
	}
}

func TestResolveCachesMisses(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()
	if err := r.AddSearchPath(dir); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve("nope.png"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}

	hits, misses := r.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 2, 1", hits, misses)
	}
}

func TestAddSearchPathRejectsFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	touch(t, file)

	r := NewResolver()
	if err := r.AddSearchPath(file); err == nil {
		t.Error("expected an error for a non-directory search path")
	}
	if err := r.AddSearchPath(filepath.Join(file, "missing")); err == nil {
		t.Error("expected an error for a missing search path")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	c.Set("a", "/abs/a")

	if v, ok := c.Get("a"); !ok || v != "/abs/a" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss")
	}

	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("Clear should drop entries")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats() = %d, %d, want 1, 2", hits, misses)
	}
}
