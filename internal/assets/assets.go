// Package assets resolves texture paths referenced by a scene to files on disk.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no search path holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Resolver turns asset paths into absolute file paths.
// Relative paths are looked up in the search paths, most recently added
// first. Results, including misses, are cached.
type Resolver struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewResolver creates a resolver with no search paths.
func NewResolver() *Resolver {
	return &Resolver{
		cache: NewCache(),
	}
}

// AddSearchPath adds a directory to search for relative paths.
// Directories are searched in reverse order (last added = highest priority).
func (r *Resolver) AddSearchPath(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("search path %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("search path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("search path %s: not a directory", dir)
	}

	r.mu.Lock()
	r.roots = append(r.roots, abs)
	r.mu.Unlock()

	// Earlier misses may now resolve.
	r.cache.Clear()
	return nil
}

// SearchPaths returns the search directories in lookup order.
func (r *Resolver) SearchPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.roots))
	for i := len(r.roots) - 1; i >= 0; i-- {
		out = append(out, r.roots[i])
	}
	return out
}

// Resolve returns the absolute, cleaned path of an existing file.
func (r *Resolver) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}

	if abs, ok := r.cache.Get(path); ok {
		if abs == "" {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return abs, nil
	}

	abs := r.lookup(path)
	r.cache.Set(path, abs)
	if abs == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return abs, nil
}

func (r *Resolver) lookup(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		if isFile(path) {
			return filepath.Clean(path)
		}
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.roots) - 1; i >= 0; i-- {
		candidate := filepath.Join(r.roots[i], path)
		if isFile(candidate) {
			return candidate
		}
	}
	return ""
}

// Stats returns cache hit and miss counts.
func (r *Resolver) Stats() (hits, misses int) {
	return r.cache.Stats()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Cache maps requested paths to resolved ones. An empty value records a
// path known not to resolve.
type Cache struct {
	data map[string]string
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]string),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Clear drops all entries. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]string)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
