// Package cache keeps the most recently rendered result in a scratch file so
// it can be redisplayed without re-running the statement.
package cache

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/internal/failure"
)

// ErrNothingCached is returned by Retrieve before the first Store.
var ErrNothingCached = errors.New("no results to redisplay")

// Cache owns a single scratch file holding the last rendered result.
type Cache struct {
	dir string

	mu   sync.Mutex
	path string
	size int
}

// New returns a cache that creates its file in dir (os.TempDir when empty).
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Store overwrites the cached result with rendered.
func (c *Cache) Store(rendered string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		f, err := os.CreateTemp(c.dir, "isql-cache-*")
		if err != nil {
			return failure.Resource(err, "create cache file")
		}
		c.path = f.Name()
		if err := f.Close(); err != nil {
			return failure.Resource(err, "close cache file")
		}
	}
	if err := os.WriteFile(c.path, []byte(rendered), 0o600); err != nil {
		return failure.Resource(err, "write cache file %s", c.path)
	}
	c.size = len(rendered)
	return nil
}

// Retrieve returns the last stored result.
func (c *Cache) Retrieve() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		return "", ErrNothingCached
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", failure.Resource(err, "read cache file %s", c.path)
	}
	return string(data), nil
}

// Size returns the byte length of the cached result.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Path returns the scratch file path, empty before the first Store.
func (c *Cache) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Remove deletes the scratch file. The cache can be reused afterwards.
func (c *Cache) Remove() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		return nil
	}
	path := c.path
	c.path, c.size = "", 0
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return failure.Resource(err, "remove cache file %s", path)
	}
	return nil
}
