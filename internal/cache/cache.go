// Package cache is a TTL-keyed memoization layer for expensive or
// rate-limited fetches. Concurrent misses for the same key are coalesced
// into a single producer invocation.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	exp time.Time
	val interface{}
}

// Cache memoizes values by string key until their TTL elapses. Entries are
// never evicted early; an expired entry stays in the map until the next
// lookup recomputes it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
	now     func() time.Time
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock returns a cache that reads time from now (tests).
func NewWithClock(now func() time.Time) *Cache {
	c := New()
	c.now = now
	return c
}

// lookup returns the live value for key, if any.
func (c *Cache) lookup(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.exp.After(c.now()) {
		return nil, false
	}
	return e.val, true
}

func (c *Cache) store(key string, ttl time.Duration, val interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{exp: c.now().Add(ttl), val: val}
	c.mu.Unlock()
}

// Do returns the cached value for key, or invokes produce and caches its
// result for ttl. Concurrent callers that miss on the same key share one
// in-flight produce call. Errors are returned to every waiter and never
// cached.
func (c *Cache) Do(key string, ttl time.Duration, produce func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: a coalesced predecessor may have filled the entry
		// between our miss and our turn.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := produce()
		if err != nil {
			return nil, err
		}
		c.store(key, ttl, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Get is a typed wrapper around Cache.Do.
func Get[T any](c *Cache, key string, ttl time.Duration, produce func() (T, error)) (T, error) {
	v, err := c.Do(key, ttl, func() (interface{}, error) { return produce() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
