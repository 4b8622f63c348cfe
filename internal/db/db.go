package db

import (
	"context"
	"time"
)

// Store is the KV facade shared by the rate limiter and the response cache.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations with expiry.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	// IncrBy atomically adds val to the integer at key and returns the new value.
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	// Expire sets TTL on key. With nx=true the TTL is set only if the key has none yet.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
