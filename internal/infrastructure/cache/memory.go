package cache

import (
	"context"
	"sync"
	"time"

	"github.com/snapvalue/backend/internal/domain"
)

// cacheItem is a single cached pricing result with its expiration
type cacheItem struct {
	result     domain.MatchResult
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory pricing result cache with TTL
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a pricing result from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.MatchResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	result := item.result
	return &result, nil
}

// Set stores a pricing result in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, result domain.MatchResult, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		result:     result,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a pricing result from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
