package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/shelfassist/backend/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

// MemoryCache is an in-process answer cache with per-entry TTL
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache. Entries set without a TTL
// live for defaultTTL; expired entries are swept every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	return &MemoryCache{
		items: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	value, found := c.items.Get(key)
	if !found {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	// Round-trip through JSON so readers see the same shapes the redis cache returns
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var storedValue interface{}
	if err := json.Unmarshal(jsonData, &storedValue); err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, storedValue, ttl)
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, found := c.items.Get(key)
	return found, nil
}

// Size returns the number of entries held, including expired ones not yet swept
func (c *MemoryCache) Size() int {
	return c.items.ItemCount()
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.items.Flush()
}
