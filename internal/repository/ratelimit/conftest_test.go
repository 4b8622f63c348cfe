package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/kailas-cloud/tripfinder/internal/db/memory"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(memory.NewStore().WithClock(clk.now), limit, window), clk
}

// flakyExpireStore fails the first failExpires Expire calls and delegates the rest.
type flakyExpireStore struct {
	*memory.Store
	failExpires int
}

func (s *flakyExpireStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	if s.failExpires > 0 {
		s.failExpires--
		return errors.New("i/o timeout")
	}
	return s.Store.Expire(ctx, key, ttl, nx)
}

// mockKVStore implements the consumer interface for failure tests.
type mockKVStore struct {
	incrFn   func(ctx context.Context, key string, val int64) (int64, error)
	expireFn func(ctx context.Context, key string, ttl time.Duration, nx bool) error
	expires  int
	nx       bool
}

func (m *mockKVStore) IncrBy(ctx context.Context, key string, val int64) (int64, error) {
	if m.incrFn != nil {
		return m.incrFn(ctx, key, val)
	}
	return 1, nil
}

func (m *mockKVStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	m.expires++
	m.nx = nx
	if m.expireFn != nil {
		return m.expireFn(ctx, key, ttl, nx)
	}
	return nil
}
