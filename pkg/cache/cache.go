// Package cache is a thin wrapper over an in-process TTL cache used as
// a read shim on hot list/get paths. It is invalidated on every write
// path; dropping it changes latency only, never behavior.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache struct {
	inner *gocache.Cache
}

func New(ttl time.Duration) *Cache {
	return &Cache{inner: gocache.New(ttl, 2*ttl)}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	return c.inner.Get(key)
}

func (c *Cache) Set(key string, value interface{}) {
	if c == nil {
		return
	}
	c.inner.SetDefault(key, value)
}

func (c *Cache) Invalidate(keys ...string) {
	if c == nil {
		return
	}
	for _, key := range keys {
		c.inner.Delete(key)
	}
}
