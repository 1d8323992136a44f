package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jmurray2011/logid/internal/logging"
	"github.com/jmurray2011/logid/internal/metrics"
)

// Cache holds at most one token for one region. Hits take only the read
// lock; a refresh fetches without holding any lock and then swaps the whole
// entry under the write lock, so readers never see a partial token.
// Concurrent refreshes are not de-duplicated; the last writer wins.
type Cache struct {
	region  string
	fetcher Fetcher
	now     func() time.Time
	metrics *metrics.Metrics
	log     logging.Logger

	mu    sync.RWMutex
	token *Token
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

func WithCacheLogger(l logging.Logger) CacheOption {
	return func(c *Cache) { c.log = l }
}

// NewCache creates an empty cache for regionKey backed by fetcher.
func NewCache(regionKey string, fetcher Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		region:  regionKey,
		fetcher: fetcher,
		now:     time.Now,
		log:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("region", regionKey)
	return c
}

// Token returns a usable bearer token. Unless forceRefresh is set, a cached
// usable token is returned without network I/O. Fetch errors are returned
// unchanged and leave the cache as it was.
func (c *Cache) Token(ctx context.Context, forceRefresh bool) (string, error) {
	if !forceRefresh {
		if tok, ok := c.cached(); ok {
			c.metrics.CacheHit(c.region)
			c.log.Debug("using cached token")
			return tok.Value, nil
		}
	}

	c.metrics.CacheMiss(c.region)
	tok, err := c.fetcher.FetchToken(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token = &tok
	c.mu.Unlock()

	return tok.Value, nil
}

// Refresh fetches a new token regardless of cache state.
func (c *Cache) Refresh(ctx context.Context) (string, error) {
	return c.Token(ctx, true)
}

// Valid reports whether a usable token is cached.
func (c *Cache) Valid() bool {
	_, ok := c.cached()
	return ok
}

// Region returns the region key this cache serves.
func (c *Cache) Region() string {
	return c.region
}

func (c *Cache) cached() (Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil || !c.token.Usable(c.now()) {
		return Token{}, false
	}
	return *c.token, true
}
