package store

import (
	"fmt"
	"testing"
	"time"
)

// TestQueryCacheHitMiss tests basic get/set behavior and counters
func TestQueryCacheHitMiss(t *testing.T) {
	c := NewQueryCache(time.Minute)
	key := Key("SELECT 1", 42)

	if _, ok := c.Get(key); ok {
		t.Error("Get() on empty cache = hit, want miss")
	}

	c.Set(key, "result")

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() after Set() = miss, want hit")
	}
	if got != "result" {
		t.Errorf("Get() = %v, want %q", got, "result")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %d hits / %d misses, want 1/1", stats.Hits, stats.Misses)
	}
}

// TestQueryCacheExpiry tests that entries expire after the TTL
func TestQueryCacheExpiry(t *testing.T) {
	c := NewQueryCache(10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() after TTL = hit, want miss")
	}
}

// TestQueryCacheSizeBound tests oldest-first trimming past the size bound
func TestQueryCacheSizeBound(t *testing.T) {
	c := NewQueryCache(time.Hour)

	for i := 0; i < maxCacheEntries+10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	if size := c.Stats().Size; size > maxCacheEntries {
		t.Errorf("cache size = %d, want <= %d", size, maxCacheEntries)
	}
}

// TestQueryCacheInvalidate tests that invalidation clears all entries
func TestQueryCacheInvalidate(t *testing.T) {
	c := NewQueryCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate()

	if size := c.Stats().Size; size != 0 {
		t.Errorf("size after Invalidate() = %d, want 0", size)
	}
}

// TestQueryCacheDefaultTTL tests the non-positive TTL fallback
func TestQueryCacheDefaultTTL(t *testing.T) {
	c := NewQueryCache(0)
	if c.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultCacheTTL)
	}
}
