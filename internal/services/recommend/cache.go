package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventscout/chat-service/internal/core/cache"
	"github.com/eventscout/chat-service/internal/domain/models"
)

const cacheKeyPrefix = "recs:"

// Cache memoizes recommendation sets keyed by preference fingerprint.
// Entries expire after the configured TTL since cache_age_hours is a
// user-visible staleness signal.
type Cache struct {
	backend cache.Cache
	ttl     time.Duration
}

// NewCache creates a recommendation cache over the given backend.
func NewCache(backend cache.Cache, ttl time.Duration) (*Cache, error) {
	if backend == nil {
		return nil, fmt.Errorf("cache backend is required")
	}
	return &Cache{backend: backend, ttl: ttl}, nil
}

// Get returns the entry for a fingerprint, or nil on miss. A corrupted
// entry is dropped and treated as a miss.
func (c *Cache) Get(ctx context.Context, fingerprint string) (*models.CacheEntry, error) {
	data, err := c.backend.Get(ctx, cacheKeyPrefix+fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_, _ = c.backend.Delete(ctx, cacheKeyPrefix+fingerprint)
		return nil, nil
	}
	return &entry, nil
}

// Put overwrites the entry for a fingerprint.
func (c *Cache) Put(ctx context.Context, fingerprint string, entry models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.backend.Set(ctx, cacheKeyPrefix+fingerprint, data, c.ttl); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
