package respcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
)

func TestGet_Miss(t *testing.T) {
	c, _, counter := newTestCache(5 * time.Minute)
	if _, ok := c.Get(context.Background(), "beach"); ok {
		t.Fatal("expected miss on empty cache")
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss counter = %v, want 1", got)
	}
}

func TestPutGet_NormalizedKey(t *testing.T) {
	c, _, counter := newTestCache(5 * time.Minute)
	ctx := context.Background()

	want := match.NewResponse([]match.Match{{ID: 1, Reason: "Surf at sunrise."}}, "")
	c.Put(ctx, "Beach Trip", want)

	got, ok := c.Get(ctx, "  beach trip ")
	if !ok {
		t.Fatal("expected hit for differently cased query")
	}
	if len(got.Matches) != 1 || got.Matches[0].ID != 1 || got.Matches[0].Reason != "Surf at sunrise." {
		t.Errorf("unexpected response %+v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit counter = %v, want 1", got)
	}
}

func TestPutGet_EmptyWithHint(t *testing.T) {
	c, _, _ := newTestCache(5 * time.Minute)
	ctx := context.Background()

	c.Put(ctx, "q", match.NewResponse(nil, "Try broadening your interests."))
	got, ok := c.Get(ctx, "q")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Matches == nil {
		t.Error("matches must be non-nil after decode")
	}
	if got.Hint != "Try broadening your interests." {
		t.Errorf("hint = %q", got.Hint)
	}
}

func TestGet_Expired(t *testing.T) {
	c, clk, _ := newTestCache(5 * time.Minute)
	ctx := context.Background()

	c.Put(ctx, "beach", match.NewResponse([]match.Match{{ID: 1, Reason: "r"}}, ""))

	clk.advance(5 * time.Minute)
	if _, ok := c.Get(ctx, "beach"); !ok {
		t.Fatal("expected hit at exactly the TTL")
	}

	clk.advance(time.Millisecond)
	if _, ok := c.Get(ctx, "beach"); ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestGet_StoreErrorIsMiss(t *testing.T) {
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) { return nil, errors.New("connection reset") },
	}
	c := New(ms, time.Minute, nil)
	if _, ok := c.Get(context.Background(), "beach"); ok {
		t.Fatal("expected miss on store error")
	}
}

func TestGet_CorruptEntryIsMiss(t *testing.T) {
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) { return []byte("{not json"), nil },
	}
	c := New(ms, time.Minute, nil)
	if _, ok := c.Get(context.Background(), "beach"); ok {
		t.Fatal("expected miss on corrupt entry")
	}
}

func TestPut_UsesTTLAndPrefix(t *testing.T) {
	var gotKey string
	var gotTTL time.Duration
	ms := &mockKVStore{
		setFn: func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
			gotKey, gotTTL = key, ttl
			return nil
		},
	}
	c := New(ms, 0, nil).WithPrefix("staging:")
	c.Put(context.Background(), "beach", match.NewResponse(nil, ""))

	if gotTTL != DefaultTTL {
		t.Errorf("ttl = %v, want %v", gotTTL, DefaultTTL)
	}
	const prefix = "staging:search_cache:"
	if len(gotKey) != len(prefix)+64 || gotKey[:len(prefix)] != prefix {
		t.Errorf("unexpected key %q", gotKey)
	}
}

func TestPut_StoreErrorIgnored(t *testing.T) {
	ms := &mockKVStore{
		setFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return errors.New("oom") },
	}
	c := New(ms, time.Minute, nil)
	c.Put(context.Background(), "beach", match.NewResponse(nil, ""))
}
