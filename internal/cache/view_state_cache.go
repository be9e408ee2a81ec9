package cache

import (
	"sync"
	"time"

	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	viewStateCacheName  = "view_state"
	viewStateKeyPrefix  = "list:"
	DefaultViewStateTTL = 30 * time.Minute
	cleanupInterval     = time.Minute
)

// ViewStateCache keeps one list controller per visitor. Controllers expire
// after idleTTL without access.
type ViewStateCache struct {
	cache    *gocache.Cache
	lister   services.LeadLister
	pageSize int
	idleTTL  time.Duration
	mu       sync.Mutex
}

// NewViewStateCache creates a view state cache whose controllers fetch through lister
func NewViewStateCache(lister services.LeadLister, pageSize int, idleTTL time.Duration) *ViewStateCache {
	if idleTTL <= 0 {
		idleTTL = DefaultViewStateTTL
	}
	return &ViewStateCache{
		cache:    gocache.New(idleTTL, cleanupInterval),
		lister:   lister,
		pageSize: pageSize,
		idleTTL:  idleTTL,
	}
}

// Controller returns the visitor's controller, creating a fresh one on first
// use or after expiry. The second result reports whether it was created.
func (vc *ViewStateCache) Controller(visitorID string) (*services.ListController, bool) {
	key := viewStateKeyPrefix + visitorID

	vc.mu.Lock()
	defer vc.mu.Unlock()

	if data, found := vc.cache.Get(key); found {
		if controller, ok := data.(*services.ListController); ok {
			metrics.CacheHits.WithLabelValues(viewStateCacheName).Inc()
			// sliding expiration
			vc.cache.Set(key, controller, vc.idleTTL)
			return controller, false
		}
		logger.Error("Invalid view state cache data type", zap.String("visitor_id", visitorID))
		vc.cache.Delete(key)
	}

	metrics.CacheMisses.WithLabelValues(viewStateCacheName).Inc()
	controller := services.NewListController(vc.lister, vc.pageSize)
	vc.cache.Set(key, controller, vc.idleTTL)
	metrics.CacheSize.WithLabelValues(viewStateCacheName).Set(float64(vc.cache.ItemCount()))

	logger.Debug("Created list controller for visitor", zap.String("visitor_id", visitorID))
	return controller, true
}

// Forget drops the visitor's controller, e.g. on logout
func (vc *ViewStateCache) Forget(visitorID string) {
	vc.cache.Delete(viewStateKeyPrefix + visitorID)
	metrics.CacheSize.WithLabelValues(viewStateCacheName).Set(float64(vc.cache.ItemCount()))
}

// Len returns the number of live controllers
func (vc *ViewStateCache) Len() int {
	return vc.cache.ItemCount()
}
