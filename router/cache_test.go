package router

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"advisormesh/core"
)

func decisionFor(q string) core.RoutingDecision {
	return core.RoutingDecision{
		Query:      q,
		Categories: []core.Category{core.CategoryProgram},
		Confidence: map[core.Category]float64{core.CategoryProgram: 0.9},
	}
}

func TestCache_PutGet(t *testing.T) {
	c := NewCache()
	_, ok := c.Get("q")
	assert.False(t, ok)

	dec := decisionFor("q")
	c.Put("q", dec)

	got, ok := c.Get("q")
	assert.True(t, ok)
	assert.Equal(t, dec, got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := NewCache(func(o *CacheOptions) {
		o.TTL = time.Minute
		o.Now = func() time.Time { return clock() }
	})

	c.Put("q", decisionFor("q"))
	_, ok := c.Get("q")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("q")
	assert.False(t, ok, "expired entry is a miss")
	assert.Equal(t, 0, c.Len(), "expired entry is removed lazily")
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	c := NewCache(func(o *CacheOptions) {
		o.TTL = 0
		o.Now = func() time.Time { return now.Add(240 * time.Hour) }
	})
	c.Put("q", decisionFor("q"))
	_, ok := c.Get("q")
	assert.True(t, ok)
}

func TestCache_EvictsOldestOverCap(t *testing.T) {
	c := NewCache(func(o *CacheOptions) { o.MaxEntries = 3 })
	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("q%d", i)
		c.Put(key, decisionFor(key))
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("q0")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get("q3")
	assert.True(t, ok)
}

func TestCache_OverwriteKeepsSingleEntry(t *testing.T) {
	c := NewCache()
	c.Put("q", decisionFor("first"))
	c.Put("q", decisionFor("second"))

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "second", got.Query, "last write wins")
}

func TestCache_ConcurrentMisses(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put("q", decisionFor("q"))
			_, _ = c.Get("q")
		}()
	}
	wg.Wait()

	got, ok := c.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "q", got.Query)
}
