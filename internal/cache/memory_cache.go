package cache

import (
	"context"
	"sync"
	"time"
)

// defaultMemoryTTL applies to entries stored without an expiration
const defaultMemoryTTL = time.Hour

// memoryCache implements Cache in process memory with TTLs and a size bound
type memoryCache struct {
	items    map[string]cacheItem
	maxItems int
	mu       sync.RWMutex
}

type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an in-process cache holding at most maxItems entries
func NewMemoryCache(maxItems int) Cache {
	if maxItems <= 0 {
		maxItems = 1000
	}
	return &memoryCache{
		items:    make(map[string]cacheItem),
		maxItems: maxItems,
	}
}

// Get returns nil, nil for missing or expired keys
func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	if time.Now().Before(item.expiresAt) {
		return item.data, nil
	}

	c.mu.Lock()
	// Double-check after acquiring write lock
	if item, exists := c.items[key]; exists && !time.Now().Before(item.expiresAt) {
		delete(c.items, key)
	}
	c.mu.Unlock()

	return nil, nil
}

// Set stores a value, evicting the entry closest to expiry when full
func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictLocked()
	}

	data := make([]byte, len(value))
	copy(data, value)

	c.items[key] = cacheItem{
		data:      data,
		expiresAt: time.Now().Add(expiration),
	}
	return nil
}

// Delete removes a key
func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Exists reports whether an unexpired key is present
func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	return exists && time.Now().Before(item.expiresAt), nil
}

// Close drops all entries
func (c *memoryCache) Close() error {
	c.mu.Lock()
	c.items = make(map[string]cacheItem)
	c.mu.Unlock()
	return nil
}

// Health always succeeds for the in-process cache
func (c *memoryCache) Health(ctx context.Context) error {
	return nil
}

// evictLocked removes the entry with the earliest expiry. Caller holds c.mu.
func (c *memoryCache) evictLocked() {
	oldestKey := ""
	var oldestTime time.Time

	for k, item := range c.items {
		if oldestKey == "" || item.expiresAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = item.expiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
