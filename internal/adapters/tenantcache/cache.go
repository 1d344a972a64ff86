package tenantcache

// Package tenantcache memoizes tenant-by-slug lookups in process. Slugs are
// resolved on nearly every navigation, so even a short TTL removes most of
// the directory round trips. Membership is never cached here; it is
// re-verified per navigation by the tenant gate.

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/comandero/comandero/internal/domain/model"
)

const (
	// DefaultTTL keeps entries short-lived so deactivated restaurants drop
	// out quickly.
	DefaultTTL             = 30 * time.Second
	defaultCleanupInterval = 5 * time.Minute
)

// Cache is an in-process TTL cache of restaurants keyed by slug.
type Cache struct {
	c *gocache.Cache
}

// New creates a Cache with the given entry TTL. A non-positive TTL falls
// back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{c: gocache.New(ttl, defaultCleanupInterval)}
}

// Get returns the cached restaurant for slug, if present and fresh.
func (c *Cache) Get(slug string) (*model.Restaurant, bool) {
	v, ok := c.c.Get(slug)
	if !ok {
		return nil, false
	}
	r, ok := v.(*model.Restaurant)
	return r, ok
}

// Set caches the restaurant under its slug with the default TTL.
func (c *Cache) Set(slug string, r *model.Restaurant) {
	if slug == "" || r == nil {
		return
	}
	c.c.SetDefault(slug, r)
}

// Invalidate drops the entry for slug, e.g. after a restaurant update.
func (c *Cache) Invalidate(slug string) {
	c.c.Delete(slug)
}
