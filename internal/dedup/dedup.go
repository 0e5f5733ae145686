// Package dedup tracks fingerprints of already-processed files so the drop
// watcher reacts to each distinct file exactly once per process lifetime.
package dedup

import "sync"

// Cache is a concurrency-safe set of fingerprints with optional FIFO
// eviction. With limit 0 the cache grows without bound, which matches the
// expectation that a watcher process handles a modest number of drops
// between restarts.
type Cache struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
	limit int
}

// NewCache returns a cache that evicts the oldest fingerprint once more
// than limit entries are held. A limit of 0 disables eviction.
func NewCache(limit int) *Cache {
	return &Cache{
		seen:  make(map[string]struct{}),
		limit: limit,
	}
}

// Add records a fingerprint and reports whether it was new. A false return
// means the fingerprint was already present and the file should be skipped.
func (c *Cache) Add(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[fingerprint]; ok {
		return false
	}
	c.seen[fingerprint] = struct{}{}

	if c.limit > 0 {
		c.order = append(c.order, fingerprint)
		for len(c.order) > c.limit {
			evicted := c.order[0]
			c.order = c.order[1:]
			delete(c.seen, evicted)
		}
	}
	return true
}

// Contains reports whether a fingerprint is currently held.
func (c *Cache) Contains(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[fingerprint]
	return ok
}

// Len returns the number of fingerprints currently held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
