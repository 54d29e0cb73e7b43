package weathercache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/skymind/internal/domain/weather"
)

type entry struct {
	snapshot  weather.Snapshot
	expiresAt time.Time
}

// MemoryCache keeps snapshots in process memory for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements weather.SnapshotCache.
func (c *MemoryCache) Get(_ context.Context, key string) (weather.Snapshot, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return weather.Snapshot{}, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return weather.Snapshot{}, false, nil
	}
	return e.snapshot, true, nil
}

// Set stores a snapshot; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, snapshot weather.Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = entry{snapshot: snapshot, expiresAt: exp}
	return nil
}

var _ weather.SnapshotCache = (*MemoryCache)(nil)
