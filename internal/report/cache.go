package report

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vegaprotocol/research-bot/internal/models"
)

// DefaultCacheTTL is how long a built report body stays fresh.
const DefaultCacheTTL = time.Minute

// BuildFunc produces a report body. It is treated as expensive and is never
// invoked more than once concurrently for the cached path.
type BuildFunc func(ctx context.Context, authenticated bool) (map[string]models.TraderRow, error)

type cacheEntry struct {
	body   map[string]models.TraderRow
	expiry time.Time
}

// Cache is a single-entry, TTL-bound cache around a report builder.
// Authenticated requests always rebuild and never read or write the shared
// entry, since their bodies may embed recovery material that must not leak
// to anonymous callers. Unauthenticated cache misses are collapsed into a
// single rebuild.
type Cache struct {
	build BuildFunc
	ttl   time.Duration

	entry atomic.Pointer[cacheEntry]
	mu    sync.Mutex

	// now is swapped in tests to step through TTL expiry.
	now func() time.Time
}

// NewCache wraps build with a TTL cache. A non-positive ttl falls back to
// DefaultCacheTTL.
func NewCache(build BuildFunc, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		build: build,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Serve returns a report body. The second return value reports whether the
// body came from the cache.
func (c *Cache) Serve(ctx context.Context, authenticated bool) (map[string]models.TraderRow, bool, error) {
	if authenticated {
		body, err := c.build(ctx, true)
		return body, false, err
	}

	if entry := c.entry.Load(); entry != nil && c.now().Before(entry.expiry) {
		return entry.body, true, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have refreshed the entry while we waited.
	if entry := c.entry.Load(); entry != nil && c.now().Before(entry.expiry) {
		return entry.body, true, nil
	}

	body, err := c.build(ctx, false)
	if err != nil {
		return nil, false, err
	}

	c.entry.Store(&cacheEntry{
		body:   body,
		expiry: c.now().Add(c.ttl),
	})

	return body, false, nil
}
