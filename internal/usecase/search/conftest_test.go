package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/query"
)

// --- Mocks ---

type mockLimiter struct {
	allow bool
	err   error
	calls int
}

func (m *mockLimiter) Allow(_ context.Context, _ string) (bool, error) {
	m.calls++
	return m.allow, m.err
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]match.Response
	puts    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]match.Response)}
}

func (c *mapCache) Get(_ context.Context, q string) (match.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[query.Normalize(q)]
	return r, ok
}

func (c *mapCache) Put(_ context.Context, q string, resp match.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.entries[query.Normalize(q)] = resp
}

func (c *mapCache) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

type stubGenerator struct {
	text  string
	err   error
	delay time.Duration
	panic any
	calls atomic.Int32

	mu         sync.Mutex
	lastPrompt domain.Prompt
}

func (g *stubGenerator) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.lastPrompt = p
	g.mu.Unlock()
	if g.panic != nil {
		panic(g.panic)
	}
	if g.delay > 0 {
		// Ignores ctx on purpose: the pipeline must not depend on cooperative cancellation.
		time.Sleep(g.delay)
	}
	return g.text, g.err
}

func (g *stubGenerator) prompt() domain.Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastPrompt
}

type testEnv struct {
	svc     *Service
	limiter *mockLimiter
	cache   *mapCache
	gen     *stubGenerator
}

func newTestEnv(t *testing.T, gen *stubGenerator) *testEnv {
	t.Helper()
	env := &testEnv{
		limiter: &mockLimiter{allow: true},
		cache:   newMapCache(),
		gen:     gen,
	}
	svc, err := New(inventory.Default(), env.limiter, env.cache, gen)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env.svc = svc
	return env
}

func body(q string) query.Input {
	return query.FromText(q)
}
