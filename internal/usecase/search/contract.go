package search

import (
	"context"

	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
)

// RateLimiter consumes per-client request quota.
type RateLimiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

// Cache stores finished responses keyed by query.
type Cache interface {
	Get(ctx context.Context, query string) (match.Response, bool)
	Put(ctx context.Context, query string, resp match.Response)
}
