package store

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// maxCacheEntries bounds memory used by cached report queries.
	maxCacheEntries = 50

	// DefaultCacheTTL is how long a cached result stays fresh.
	DefaultCacheTTL = 5 * time.Minute
)

// cacheEntry holds one cached query result with its fetch time for
// staleness checks and eviction ordering.
type cacheEntry struct {
	fetchedAt time.Time
	value     any
}

// QueryCache is a TTL-bounded read cache for expensive report queries.
// Dashboard pages re-request the same aggregations on every refresh; caching
// them keeps repeated reads off the database without changing results in any
// way operators would notice.
//
// Thread-safe for concurrent handler access.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration

	hits   int64
	misses int64
}

// NewQueryCache creates a cache with the given TTL. A non-positive TTL
// falls back to DefaultCacheTTL.
func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Key builds a cache key from a query string and its parameters.
func Key(query string, params ...any) string {
	return fmt.Sprintf("%s|%v", query, params)
}

// Get returns the cached value for key when present and fresh.
func (c *QueryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.value, true
}

// Set stores a value, evicting expired entries and trimming the oldest
// entries when the cache exceeds its size bound.
func (c *QueryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{fetchedAt: time.Now(), value: value}
	c.evictLocked()
}

// evictLocked removes expired entries, then trims oldest-first down to
// maxCacheEntries. Caller must hold the mutex.
func (c *QueryCache) evictLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.Sub(entry.fetchedAt) > c.ttl {
			delete(c.entries, key)
		}
	}

	if len(c.entries) <= maxCacheEntries {
		return
	}

	type keyed struct {
		key string
		at  time.Time
	}
	ordered := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		ordered = append(ordered, keyed{key, entry.fetchedAt})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].at.Before(ordered[j].at) })

	for _, item := range ordered[:len(ordered)-maxCacheEntries] {
		delete(c.entries, item.key)
	}
}

// Invalidate clears the whole cache. Called after writes that change what
// the cached aggregations would report.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// CacheStats summarizes cache effectiveness for the admin panel.
type CacheStats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// Stats returns a snapshot of cache counters.
func (c *QueryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}
