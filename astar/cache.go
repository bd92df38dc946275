package astar

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/warepath/grid"
)

// CacheKey identifies a query. Termination and traversal are part of the key
// because they change the answer for the same endpoints.
type CacheKey struct {
	Start, Goal grid.Coordinate
	Termination Termination
	Traversal   Traversal
}

type cacheEntry struct {
	result  Result
	version uint64
}

// Cache stores successful search results tagged with the grid version they
// were computed against. A lookup with a different version drops the entry.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[CacheKey]cacheEntry
	order   []CacheKey // insertion order for FIFO eviction
	maxSize int

	hits, misses, evictions, stale int
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Size, MaxSize                  int
	Hits, Misses, Evictions, Stale int
}

// NewCache returns a cache holding at most maxSize entries; maxSize <= 0
// means unbounded.
func NewCache(maxSize int) *Cache {
	return &Cache{
		entries: make(map[CacheKey]cacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the cached result for key if it was computed at version.
func (c *Cache) Get(key CacheKey, version uint64) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return Result{}, false
	}
	if e.version != version {
		c.remove(key)
		c.stale++
		c.misses++
		return Result{}, false
	}
	c.hits++

	return cloneResult(e.result), true
}

// Put stores res for key at version, evicting the oldest entry when full.
func (c *Cache) Put(key CacheKey, version uint64, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if c.maxSize > 0 && len(c.entries) >= c.maxSize {
			c.remove(c.order[0])
			c.evictions++
		}
		c.order = append(c.order, key)
	}
	res.Cached = false
	c.entries[key] = cacheEntry{result: cloneResult(res), version: version}
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[CacheKey]cacheEntry)
	c.order = nil
	c.hits, c.misses, c.evictions, c.stale = 0, 0, 0, 0
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:      len(c.entries),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Stale:     c.stale,
	}
}

// String returns a one-line summary of the cache counters.
func (c *Cache) String() string {
	st := c.Stats()
	hitRate := 0.0
	if total := st.Hits + st.Misses; total > 0 {
		hitRate = float64(st.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("astar.Cache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d, stale=%d]",
		st.Size, st.MaxSize, st.Hits, st.Misses, hitRate, st.Evictions, st.Stale)
}

// remove deletes key from both the map and the order queue. Callers hold mu.
func (c *Cache) remove(key CacheKey) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// cloneResult copies the slices so callers cannot corrupt cached entries.
func cloneResult(r Result) Result {
	r.Path = append([]grid.Coordinate(nil), r.Path...)
	r.Costs = append([]int(nil), r.Costs...)
	return r
}
