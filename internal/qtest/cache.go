package qtest

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// FieldCache memoizes custom-field-id lookups. It is owned by the client
// instance, never package-global, so cache lifetime is explicit and tests
// cannot contaminate each other. Concurrent lookups for the same key are
// deduplicated with singleflight.
type FieldCache struct {
	mu    sync.RWMutex
	ids   map[string]int
	group singleflight.Group
}

// NewFieldCache creates an empty field cache.
func NewFieldCache() *FieldCache {
	return &FieldCache{
		ids: make(map[string]int),
	}
}

// Get returns the cached id for key, calling fetch on a miss. A fetch error
// is returned to every waiting caller and nothing is cached.
func (c *FieldCache) Get(key string, fetch func() (int, error)) (int, error) {
	c.mu.RLock()
	if id, ok := c.ids[key]; ok {
		c.mu.RUnlock()
		return id, nil
	}
	c.mu.RUnlock()

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the group; another caller may have filled it.
		c.mu.RLock()
		if id, ok := c.ids[key]; ok {
			c.mu.RUnlock()
			return id, nil
		}
		c.mu.RUnlock()

		id, err := fetch()
		if err != nil {
			return 0, err
		}

		c.mu.Lock()
		c.ids[key] = id
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

// Invalidate drops every cached entry.
func (c *FieldCache) Invalidate() {
	c.mu.Lock()
	c.ids = make(map[string]int)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *FieldCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
