package dataset

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/pkg/metrics"
)

// cacheKey identifies one derived table: the source file and the stage
// that produced it (raw, prepared, ...).
type cacheKey struct {
	path  string
	stage string
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	df      dataframe.DataFrame
}

// Cache memoizes derived tables by source file identity. An entry is reused
// while the file's modification time and size are unchanged. Cached frames
// are shared and must be treated as read-only; every frame operation used in
// this module returns a new frame.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]cacheEntry)}
}

// Get returns the cached frame for (path, stage), calling load on first
// access or when the file changed. Loads are serialized, so each file and
// stage is built at most once per version.
func (c *Cache) Get(table Table, path, stage string, load func() (dataframe.DataFrame, error)) (dataframe.DataFrame, error) {
	info, err := os.Stat(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrOpenFile, path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{path: path, stage: stage}
	if e, ok := c.entries[key]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		metrics.RecordCacheHit(string(table))
		return e.df, nil
	}
	metrics.RecordCacheMiss(string(table))

	df, err := load()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	c.entries[key] = cacheEntry{modTime: info.ModTime(), size: info.Size(), df: df}
	metrics.UpdateCacheEntries(len(c.entries))
	return df, nil
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every cached frame.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
	metrics.RecordCacheInvalidation()
	metrics.UpdateCacheEntries(0)
}
