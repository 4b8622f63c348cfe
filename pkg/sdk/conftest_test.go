package tripfinder

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// --- Generator stub ---

type stubGenerator struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32

	mu   sync.Mutex
	last Prompt
}

func (g *stubGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.last = p
	g.mu.Unlock()
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

func (g *stubGenerator) lastPrompt() Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

type healthyGenerator struct {
	stubGenerator
	healthErr error
}

func (g *healthyGenerator) HealthCheck(context.Context) error { return g.healthErr }

// --- helpers ---

func testClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func matchIDs(r Result) []int {
	ids := make([]int, len(r.Matches))
	for i, m := range r.Matches {
		ids[i] = m.ID
	}
	return ids
}
