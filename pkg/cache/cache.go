// pkg/cache/cache.go

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	"github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
)

type CacheItem struct {
	Value      []byte
	ExpiresAt  time.Time
	AccessedAt time.Time
}

func (i *CacheItem) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// LocalCache is a bounded in-process byte store. It backs preferences when
// Redis is disabled.
type LocalCache struct {
	items         map[string]*CacheItem
	mu            sync.RWMutex
	maxSize       int
	ttl           time.Duration
	cleanupTicker *time.Ticker
	stop          chan struct{}
	stopOnce      sync.Once
	metrics       CacheMetrics
}

type CacheMetrics struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Evictions   int64 `json:"evictions"`
	Expirations int64 `json:"expirations"`
}

type Options struct {
	MaxSize         int
	TTL             time.Duration // zero keeps items until evicted
	CleanupInterval time.Duration
}

var _ domain.PreferenceStorage = (*LocalCache)(nil)

func NewLocalCache(opts Options) *LocalCache {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 1000 // Default size
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute // Default cleanup interval
	}

	cache := &LocalCache{
		items:         make(map[string]*CacheItem),
		maxSize:       opts.MaxSize,
		ttl:           opts.TTL,
		cleanupTicker: time.NewTicker(opts.CleanupInterval),
		stop:          make(chan struct{}),
	}

	go cache.startCleanup()
	return cache
}

// Load implements domain.PreferenceStorage.
func (c *LocalCache) Load(ctx context.Context, key string) ([]byte, error) {
	defer metrics.RecordStorageOperation("load", "memory", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, ok := c.Get(key)
	if !ok {
		return nil, domain.ErrPreferenceNotFound
	}
	return value, nil
}

// Save implements domain.PreferenceStorage.
func (c *LocalCache) Save(ctx context.Context, key string, value []byte) error {
	defer metrics.RecordStorageOperation("save", "memory", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Set(key, value, c.ttl)
	return nil
}

func (c *LocalCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	item := &CacheItem{
		Value:      append([]byte(nil), value...),
		AccessedAt: now,
	}
	if ttl > 0 {
		item.ExpiresAt = now.Add(ttl)
	}
	c.items[key] = item
}

func (c *LocalCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		atomic.AddInt64(&c.metrics.Misses, 1)
		return nil, false
	}

	now := time.Now()
	if item.expired(now) {
		delete(c.items, key)
		atomic.AddInt64(&c.metrics.Expirations, 1)
		atomic.AddInt64(&c.metrics.Misses, 1)
		return nil, false
	}

	item.AccessedAt = now
	atomic.AddInt64(&c.metrics.Hits, 1)
	return append([]byte(nil), item.Value...), true
}

func (c *LocalCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *LocalCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*CacheItem)
}

func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest drops the least recently accessed item. Caller holds c.mu.
func (c *LocalCache) evictOldest() {
	var oldestKey string
	var oldestAccess time.Time

	for key, item := range c.items {
		if oldestAccess.IsZero() || item.AccessedAt.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = item.AccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
		atomic.AddInt64(&c.metrics.Evictions, 1)
		logger.Debug("Cache item evicted: ", oldestKey)
	}
}

func (c *LocalCache) startCleanup() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *LocalCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
			atomic.AddInt64(&c.metrics.Expirations, 1)
			logger.Debug("Cache item expired: ", key)
		}
	}
}

// GetMetrics returns a snapshot of the hit/miss counters.
func (c *LocalCache) GetMetrics() CacheMetrics {
	return CacheMetrics{
		Hits:        atomic.LoadInt64(&c.metrics.Hits),
		Misses:      atomic.LoadInt64(&c.metrics.Misses),
		Evictions:   atomic.LoadInt64(&c.metrics.Evictions),
		Expirations: atomic.LoadInt64(&c.metrics.Expirations),
	}
}

// Stop ends the cleanup goroutine.
func (c *LocalCache) Stop() {
	c.stopOnce.Do(func() {
		c.cleanupTicker.Stop()
		close(c.stop)
	})
}
