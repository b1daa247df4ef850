package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cacheEntry[V any] struct {
	value V
	found bool
	built time.Time
}

// LookupCache memoizes point lookups by key. Concurrent misses on the same key
// share one load. Errors are never cached.
type LookupCache[V any] struct {
	// TTL bounds how long an entry is reused. Zero keeps entries until Forget.
	TTL time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
	sf      singleflight.Group
}

// NewLookupCache creates an empty cache.
func NewLookupCache[V any](ttl time.Duration) *LookupCache[V] {
	return &LookupCache[V]{TTL: ttl, entries: make(map[string]cacheEntry[V])}
}

func (c *LookupCache[V]) fresh(e cacheEntry[V]) bool {
	return c.TTL == 0 || time.Since(e.built) <= c.TTL
}

// Get returns the cached lookup for key, calling load on a miss.
func (c *LookupCache[V]) Get(ctx context.Context, key string, load func(ctx context.Context) (V, bool, error)) (V, bool, error) {
	// Fast path
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.fresh(e) {
		return e.value, e.found, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.fresh(e) {
			return e, nil
		}

		v, found, err := load(ctx)
		if err != nil {
			return nil, err
		}
		e = cacheEntry[V]{value: v, found: found, built: time.Now()}

		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}

	e = result.(cacheEntry[V])
	return e.value, e.found, nil
}

// Put stores a known value for key.
func (c *LookupCache[V]) Put(key string, v V) {
	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: v, found: true, built: time.Now()}
	c.mu.Unlock()
}

// Forget drops key so the next Get reloads it.
func (c *LookupCache[V]) Forget(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of cached keys.
func (c *LookupCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
