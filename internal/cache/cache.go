// Package cache is the process-local TTL cache for completed valuations,
// keyed by canonical listing URL. A hit inside the TTL window answers a
// request without touching the upstream site or the predictor.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dealscope/dealscope/internal/models"
)

// DefaultTTL is how long a valuation stays answerable from cache.
const DefaultTTL = 24 * time.Hour

// Entry is the cached outcome of one successful valuation.
type Entry struct {
	Result    models.ValuationResult
	Listing   models.NormalizedListing
	CreatedAt time.Time
}

// Cache wraps an expiring in-memory store. Safe for concurrent use; an
// expired entry is indistinguishable from a miss.
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New creates a cache whose entries expire after ttl. The janitor sweep
// runs at the same cadence; reads of expired entries miss regardless.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: gocache.New(ttl, ttl),
		ttl:   ttl,
	}
}

// Get returns the entry for key if one was set within the TTL window.
func (c *Cache) Get(key string) (*Entry, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := v.(*Entry)
	return entry, ok
}

// Set stores entry under key with the cache's TTL.
func (c *Cache) Set(key string, entry *Entry) {
	c.store.Set(key, entry, c.ttl)
}

// Size returns the number of live entries.
func (c *Cache) Size() int {
	return c.store.ItemCount()
}
