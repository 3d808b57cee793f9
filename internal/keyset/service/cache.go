package service

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// Cache memoizes resolved handles by descriptor cache key.
//
// Entries are never evicted. Concurrent misses for the same key are collapsed into a single
// resolution; failed resolutions are not stored, so the next call tries again.
type Cache struct {
	handles sync.Map
	group   singleflight.Group
}

var defaultCache = NewCache()

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// DefaultCache returns the process-wide cache.
func DefaultCache() *Cache {
	return defaultCache
}

// GetOrResolve returns the cached handle for d or resolves it through src.
func (c *Cache) GetOrResolve(
	ctx context.Context,
	d *keysetDomain.Descriptor,
	src Source,
) (*Handle, error) {
	key := d.CacheKey()
	if h, ok := c.handles.Load(key); ok {
		return h.(*Handle), nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		if h, ok := c.handles.Load(key); ok {
			return h, nil
		}

		h, err := src.Resolve(ctx, d)
		if err != nil {
			return nil, err
		}

		c.handles.Store(key, h)
		return h, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Handle), nil
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	n := 0
	c.handles.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
