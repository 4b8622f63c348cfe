// Package ratelimit implements a per-client fixed-window request limiter over a KV store.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kailas-cloud/tripfinder/internal/domain"
)

// Defaults: 10 requests per 60 second window.
const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

// UnknownClient is the shared bucket for requests without a client address.
const UnknownClient = "unknown"

var keyPrefix = domain.KeyPrefix + "ratelimit:"

// store is the consumer interface for the limiter (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Limiter counts requests per client in fixed windows.
//
// The first request of a window creates the counter and sets its expiry;
// once the expiry passes the next request starts a new window at 1.
type Limiter struct {
	store  store
	limit  int64
	window time.Duration
	prefix string
}

// New creates a limiter. Non-positive limit or window fall back to the defaults.
func New(s store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: s, limit: int64(limit), window: window, prefix: keyPrefix}
}

// WithPrefix overrides the key namespace.
func (l *Limiter) WithPrefix(prefix string) *Limiter {
	l.prefix = prefix + "ratelimit:"
	return l
}

// Allow consumes one request from clientID's window and reports whether it fits.
func (l *Limiter) Allow(ctx context.Context, clientID string) (bool, error) {
	if clientID == "" {
		clientID = UnknownClient
	}
	key := l.key(clientID)

	count, err := l.store.IncrBy(ctx, key, 1)
	if err != nil {
		return false, fmt.Errorf("ratelimit INCRBY: %w", err)
	}
	// NX on every hit: a counter left without TTL by a failed call heals on the next one.
	if err := l.store.Expire(ctx, key, l.window, true); err != nil {
		return false, fmt.Errorf("ratelimit EXPIRE: %w", err)
	}
	return count <= l.limit, nil
}

// Limit returns the per-window request limit.
func (l *Limiter) Limit() int { return int(l.limit) }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

func (l *Limiter) key(clientID string) string {
	h := sha256.Sum256([]byte(clientID))
	return l.prefix + hex.EncodeToString(h[:8])
}
