package cache

import (
	"sync"
	"time"

	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const (
	flashCacheName  = "flash"
	flashKeyPrefix  = "flash:"
	DefaultFlashTTL = time.Minute
)

// FlashKind is the style of a notice.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a transient notice shown once on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// FlashCache holds notices between a redirect and the page it lands on
type FlashCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

// NewFlashCache creates a flash cache; unread notices expire after ttl
func NewFlashCache(ttl time.Duration) *FlashCache {
	if ttl <= 0 {
		ttl = DefaultFlashTTL
	}
	return &FlashCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Push queues a notice for the visitor
func (fc *FlashCache) Push(visitorID string, kind FlashKind, message string) {
	key := flashKeyPrefix + visitorID

	fc.mu.Lock()
	defer fc.mu.Unlock()

	var queued []Flash
	if data, found := fc.cache.Get(key); found {
		queued, _ = data.([]Flash)
	}
	queued = append(queued, Flash{Kind: kind, Message: message})
	fc.cache.Set(key, queued, fc.ttl)
	metrics.CacheSize.WithLabelValues(flashCacheName).Set(float64(fc.cache.ItemCount()))
}

// Pop returns and removes the visitor's queued notices
func (fc *FlashCache) Pop(visitorID string) []Flash {
	key := flashKeyPrefix + visitorID

	fc.mu.Lock()
	defer fc.mu.Unlock()

	data, found := fc.cache.Get(key)
	if !found {
		metrics.CacheMisses.WithLabelValues(flashCacheName).Inc()
		return nil
	}
	fc.cache.Delete(key)
	metrics.CacheHits.WithLabelValues(flashCacheName).Inc()
	metrics.CacheSize.WithLabelValues(flashCacheName).Set(float64(fc.cache.ItemCount()))

	queued, _ := data.([]Flash)
	return queued
}
