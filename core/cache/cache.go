// Package cache provides a small thread-safe id cache keyed by natural key.
// The sync pipeline sees the same dimensions over and over within one run;
// caching the resolved surrogate ids skips the repeated lookups.
package cache

import (
	"strings"
	"sync"
)

// IDCache maps natural keys to surrogate ids.
type IDCache struct {
	mu  sync.RWMutex
	ids map[string]uint
}

func NewIDCache() *IDCache {
	return &IDCache{ids: make(map[string]uint)}
}

// Key builds a composite cache key from the natural key parts.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

func (c *IDCache) Get(key string) (uint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[key]
	return id, ok
}

func (c *IDCache) Put(key string, id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[key] = id
}

func (c *IDCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
