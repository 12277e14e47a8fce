package iocache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"golang.org/x/sync/singleflight"
)

// lookupEntry is a cached item with its expiry.
type lookupEntry struct {
	item      schema.ItemReference
	expiresAt time.Time
}

// isExpired checks if the entry has expired.
func (e *lookupEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryLookupCache is an in-process get-or-compute cache with a fixed TTL.
// Concurrent misses for the same id share one compute call.
type MemoryLookupCache struct {
	mu      sync.RWMutex
	entries map[int64]*lookupEntry
	ttl     time.Duration
	group   singleflight.Group

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

var _ contract.LookupCache = &MemoryLookupCache{} // Compile-time check

// NewMemoryLookupCache creates a memory cache and starts its cleanup loop.
func NewMemoryLookupCache(ttl time.Duration) *MemoryLookupCache {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	c := &MemoryLookupCache{
		entries:     make(map[int64]*lookupEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanup(max(ttl, time.Minute))
	return c
}

// GetOrCompute implements the LookupCache interface.
func (c *MemoryLookupCache) GetOrCompute(ctx context.Context, id int64, compute func(context.Context) (schema.ItemReference, error)) (schema.ItemReference, error) {
	if item, ok := c.get(id); ok {
		return item, nil
	}

	v, err, _ := c.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		if item, ok := c.get(id); ok {
			return item, nil
		}
		item, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.set(id, item)
		return item, nil
	})
	if err != nil {
		return schema.ItemReference{}, err
	}
	return v.(schema.ItemReference), nil
}

// Invalidate implements the LookupCache interface.
func (c *MemoryLookupCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]*lookupEntry)
	return nil
}

// Len returns the number of live entries.
func (c *MemoryLookupCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := time.Now()
	n := 0
	for _, e := range c.entries {
		if !e.isExpired(now) {
			n++
		}
	}
	return n
}

// Close stops the background cleanup goroutine.
func (c *MemoryLookupCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
	return nil
}

func (c *MemoryLookupCache) get(id int64) (schema.ItemReference, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	if !ok || entry.isExpired(time.Now()) {
		return schema.ItemReference{}, false
	}
	return entry.item, true
}

func (c *MemoryLookupCache) set(id int64, item schema.ItemReference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = &lookupEntry{item: item, expiresAt: time.Now().Add(c.ttl)}
}

// cleanup periodically removes expired entries.
func (c *MemoryLookupCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// removeExpired removes all expired entries.
func (c *MemoryLookupCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for id, entry := range c.entries {
		if entry.isExpired(now) {
			delete(c.entries, id)
		}
	}
}

// NoopLookupCache always computes. It backs the none cache backend.
type NoopLookupCache struct{}

var _ contract.LookupCache = NoopLookupCache{} // Compile-time check

// GetOrCompute implements the LookupCache interface.
func (NoopLookupCache) GetOrCompute(ctx context.Context, _ int64, compute func(context.Context) (schema.ItemReference, error)) (schema.ItemReference, error) {
	return compute(ctx)
}

// Invalidate implements the LookupCache interface.
func (NoopLookupCache) Invalidate(context.Context) error { return nil }

// Close implements the LookupCache interface.
func (NoopLookupCache) Close() error { return nil }
