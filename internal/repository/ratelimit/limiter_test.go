package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/tripfinder/internal/db/memory"
)

func TestAllow_EleventhRequestDenied(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request %d denied, expected allowed", i)
		}
	}

	ok, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("11th request allowed, expected denied")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	for range 3 {
		_, _ = l.Allow(ctx, "c")
	}
	if ok, _ := l.Allow(ctx, "c"); ok {
		t.Fatal("expected denied inside window")
	}

	// Still inside the window exactly at its end.
	clk.advance(time.Minute)
	if ok, _ := l.Allow(ctx, "c"); ok {
		t.Fatal("expected denied at window boundary")
	}

	clk.advance(time.Second)
	if ok, _ := l.Allow(ctx, "c"); !ok {
		t.Fatal("expected allowed after window reset")
	}
	if ok, _ := l.Allow(ctx, "c"); !ok {
		t.Fatal("expected second request of new window allowed")
	}
	if ok, _ := l.Allow(ctx, "c"); ok {
		t.Fatal("expected third request of new window denied")
	}
}

func TestAllow_ClientsIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatal("a: expected allowed")
	}
	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatal("a: expected denied")
	}
	if ok, _ := l.Allow(ctx, "b"); !ok {
		t.Fatal("b: expected allowed")
	}
}

func TestAllow_EmptyClientSharesUnknownBucket(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, ""); !ok {
		t.Fatal("expected first anonymous request allowed")
	}
	if ok, _ := l.Allow(ctx, UnknownClient); ok {
		t.Fatal("expected anonymous and unknown to share a bucket")
	}
}

func TestAllow_ExpireNXOnEveryHit(t *testing.T) {
	var n int64
	ms := &mockKVStore{
		incrFn: func(_ context.Context, _ string, _ int64) (int64, error) {
			n++
			return n, nil
		},
	}
	l := New(ms, 10, time.Minute)
	for range 3 {
		if _, err := l.Allow(context.Background(), "c"); err != nil {
			t.Fatal(err)
		}
	}
	if ms.expires != 3 {
		t.Errorf("expected 3 EXPIRE NX, got %d", ms.expires)
	}
	if !ms.nx {
		t.Error("EXPIRE must use NX so the window is not extended")
	}
}

func TestAllow_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	ms := &mockKVStore{
		incrFn: func(_ context.Context, _ string, _ int64) (int64, error) { return 0, boom },
	}
	l := New(ms, 10, time.Minute)
	_, err := l.Allow(context.Background(), "c")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAllow_ExpireError(t *testing.T) {
	boom := errors.New("timeout")
	ms := &mockKVStore{
		expireFn: func(_ context.Context, _ string, _ time.Duration, _ bool) error { return boom },
	}
	l := New(ms, 10, time.Minute)
	_, err := l.Allow(context.Background(), "c")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped expire error, got %v", err)
	}
}

func TestAllow_WindowResetsAfterFailedExpire(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	fs := &flakyExpireStore{Store: memory.NewStore().WithClock(clk.now), failExpires: 1}
	l := New(fs, 10, time.Minute)
	ctx := context.Background()

	if _, err := l.Allow(ctx, UnknownClient); err == nil {
		t.Fatal("expected the first EXPIRE failure to surface")
	}
	for i := 2; i <= 11; i++ {
		allowed, err := l.Allow(ctx, UnknownClient)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if want := i <= 10; allowed != want {
			t.Fatalf("request %d: allowed = %v, want %v", i, allowed, want)
		}
	}

	clk.advance(61 * time.Second)
	allowed, err := l.Allow(ctx, UnknownClient)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("window must reset even when the first EXPIRE failed")
	}
}

func TestAllow_WindowNotExtendedByLaterHits(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "c")
	clk.advance(50 * time.Second)
	_, _ = l.Allow(ctx, "c")
	if allowed, _ := l.Allow(ctx, "c"); allowed {
		t.Fatal("third request within the window must be denied")
	}

	clk.advance(11 * time.Second)
	if allowed, _ := l.Allow(ctx, "c"); !allowed {
		t.Fatal("window must end 60s after the first hit")
	}
}

func TestNew_Defaults(t *testing.T) {
	l := New(&mockKVStore{}, 0, 0)
	if l.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", l.Limit(), DefaultLimit)
	}
	if l.Window() != DefaultWindow {
		t.Errorf("window = %v, want %v", l.Window(), DefaultWindow)
	}
}

func TestWithPrefix(t *testing.T) {
	var gotKey string
	ms := &mockKVStore{
		incrFn: func(_ context.Context, key string, _ int64) (int64, error) {
			gotKey = key
			return 1, nil
		},
	}
	l := New(ms, 10, time.Minute).WithPrefix("staging:")
	_, _ = l.Allow(context.Background(), "c")
	if len(gotKey) < len("staging:ratelimit:") || gotKey[:len("staging:ratelimit:")] != "staging:ratelimit:" {
		t.Errorf("unexpected key %q", gotKey)
	}
}
