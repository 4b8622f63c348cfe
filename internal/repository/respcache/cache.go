// Package respcache caches search responses keyed by normalized query.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripfinder/internal/db"
	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/query"
	"github.com/kailas-cloud/tripfinder/internal/logger"
)

// DefaultTTL is how long a response stays cached after it was written.
const DefaultTTL = 5 * time.Minute

var keyPrefix = domain.KeyPrefix + "search_cache:"

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores serialized responses with a TTL. Store errors degrade to misses.
type Cache struct {
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
}

// New creates a response cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, ttl: ttl, prefix: keyPrefix, cacheTotal: cacheTotal}
}

// WithPrefix overrides the key namespace.
func (c *Cache) WithPrefix(prefix string) *Cache {
	c.prefix = prefix + "search_cache:"
	return c
}

// Get returns the cached response for q. "Beach Trip" and " beach trip " share an entry.
func (c *Cache) Get(ctx context.Context, q string) (match.Response, bool) {
	key := c.cacheKey(q)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			logger.FromContext(ctx).Warn("Failed to read cached response", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return match.Response{}, false
	}

	var resp match.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.FromContext(ctx).Warn("Failed to parse cached response", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return match.Response{}, false
	}
	if resp.Matches == nil {
		resp.Matches = []match.Match{}
	}

	c.inc("hit")
	return resp, true
}

// Put stores resp for q. Failures are logged and otherwise ignored.
func (c *Cache) Put(ctx context.Context, q string, resp match.Response) {
	key := c.cacheKey(q)

	data, err := json.Marshal(resp)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to encode response for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		logger.FromContext(ctx).Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) cacheKey(q string) string {
	h := sha256.Sum256([]byte(query.Normalize(q)))
	return c.prefix + hex.EncodeToString(h[:])
}
