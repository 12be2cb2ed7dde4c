package router

import (
	"sync"
	"time"

	"advisormesh/core"
)

// CacheOptions configure the routing cache.
type CacheOptions struct {
	// TTL bounds entry lifetime; zero disables expiry.
	TTL time.Duration
	// MaxEntries caps cache size; the oldest entry is evicted when exceeded.
	MaxEntries int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type cacheEntry struct {
	decision core.RoutingDecision
	created  time.Time
}

// Cache maps normalized queries to previously computed routing decisions.
// Entries are immutable once stored: a hit returns the full prior decision
// unchanged, expiry happens lazily at lookup. Concurrent misses for the same
// key may both classify and both write; last write wins, which is acceptable
// because decisions for the same normalized query are idempotent in content.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
	order   []string
	now     func() time.Time
}

// NewCache constructs a cache with a 10 minute TTL and 100 entry cap by default.
func NewCache(optFns ...func(o *CacheOptions)) *Cache {
	opts := CacheOptions{TTL: 10 * time.Minute, MaxEntries: 100, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Cache{
		ttl:     opts.TTL,
		max:     opts.MaxEntries,
		entries: make(map[string]cacheEntry),
		now:     opts.Now,
	}
}

// Get returns the stored decision for the key, treating expired entries as
// misses.
func (c *Cache) Get(key string) (core.RoutingDecision, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return core.RoutingDecision{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.created) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a fresher entry may have landed.
		if cur, stillThere := c.entries[key]; stillThere && c.now().Sub(cur.created) > c.ttl {
			c.removeLocked(key)
		}
		c.mu.Unlock()
		return core.RoutingDecision{}, false
	}
	return e.decision, true
}

// Put stores a decision under the key, evicting the oldest entry when the
// size cap is exceeded.
func (c *Cache) Put(key string, dec core.RoutingDecision) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{decision: dec, created: c.now()}
	for c.max > 0 && len(c.entries) > c.max {
		c.removeLocked(c.order[0])
	}
}

// Len returns the number of cached decisions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
