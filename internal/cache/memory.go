package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryCache is the in-process backing used when no Redis URL is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) FetchJSON(ctx context.Context, key string, dest interface{}, load Loader) error {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expiresAt) {
		return json.Unmarshal(e.raw, dest)
	}

	raw, err := loadRaw(ctx, load)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{raw: raw, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return json.Unmarshal(raw, dest)
}

func (c *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
