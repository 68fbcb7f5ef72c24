package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
)

// Ensure EmbeddingCache implements the interface.
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

const (
	// DefaultCacheCapacity bounds the in-memory cache when no capacity is given.
	DefaultCacheCapacity = 10000

	// DefaultCacheTTL is how long an unused vector stays cached.
	DefaultCacheTTL = time.Hour
)

// EmbeddingCache is a bounded, expiring in-process embedding cache.
// Reads refresh an entry's expiry. Once full, new keys are dropped
// until expired entries are swept.
type EmbeddingCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    *cache.Cache
}

// NewEmbeddingCache creates a cache holding at most capacity vectors,
// each expiring ttl after its last use. Non-positive values use the defaults.
func NewEmbeddingCache(capacity int, ttl time.Duration) *EmbeddingCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &EmbeddingCache{
		capacity: capacity,
		ttl:      ttl,
		items:    cache.New(ttl, 2*ttl),
	}
}

// Get returns a copy of the cached vector for key.
func (c *EmbeddingCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	vector := v.([]float32)
	c.items.Set(key, vector, cache.DefaultExpiration)
	return slices.Clone(vector), true, nil
}

// Put stores a copy of vector under key. A new key is not stored while
// the cache is full of live entries.
func (c *EmbeddingCache) Put(_ context.Context, key string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items.Get(key); !ok && c.items.ItemCount() >= c.capacity {
		c.items.DeleteExpired()
		if c.items.ItemCount() >= c.capacity {
			return nil
		}
	}
	c.items.Set(key, slices.Clone(vector), cache.DefaultExpiration)
	return nil
}

// Len returns the number of cached vectors, including expired ones not yet swept.
func (c *EmbeddingCache) Len() int {
	return c.items.ItemCount()
}

// Close drops all cached vectors.
func (c *EmbeddingCache) Close() error {
	c.items.Flush()
	return nil
}
