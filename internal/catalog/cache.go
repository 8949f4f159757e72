package catalog

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// FetchFunc fetches a resolved model list for one provider
type FetchFunc func(ctx context.Context) ([]Model, error)

// Cache is an in-memory LRU of resolved catalogs with a per-entry TTL. The
// resolver itself never caches; configuration flows wrap fetches with it.
type Cache struct {
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	models    []Model
	expiresAt time.Time
}

// NewCache creates a cache holding up to maxSize provider catalogs
func NewCache(maxSize int, ttl time.Duration) (*Cache, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}

	return &Cache{
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// Get returns a copy of a cached catalog if present and not expired
func (c *Cache) Get(key string) ([]Model, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}

	entry := val.(cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}

	return append([]Model(nil), entry.models...), true
}

// Set stores a copy of a catalog
func (c *Cache) Set(key string, models []Model) {
	c.cache.Add(key, cacheEntry{
		models:    append([]Model(nil), models...),
		expiresAt: c.now().Add(c.ttl),
	})
}

// GetOrFetch serves from the cache, falling back to fetch on a miss. Fetch
// errors are returned as-is and never cached.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]Model, error) {
	if models, ok := c.Get(key); ok {
		return models, nil
	}

	models, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, models)
	return models, nil
}
