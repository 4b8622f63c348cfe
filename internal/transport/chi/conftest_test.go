package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/tripfinder/internal/db/memory"
	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/repository/ratelimit"
	"github.com/kailas-cloud/tripfinder/internal/repository/respcache"
	healthuc "github.com/kailas-cloud/tripfinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripfinder/internal/usecase/search"
)

type stubGenerator struct {
	text      string
	err       error
	delay     time.Duration
	healthErr error
	calls     atomic.Int32
}

func (g *stubGenerator) Generate(ctx context.Context, _ domain.Prompt) (string, error) {
	g.calls.Add(1)
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

func (g *stubGenerator) HealthCheck(_ context.Context) error { return g.healthErr }

type testServer struct {
	srv     *Server
	handler http.Handler
	gen     *stubGenerator
}

func newTestServer(t *testing.T, gen *stubGenerator, timeout time.Duration) *testServer {
	t.Helper()
	store := memory.NewStore()

	svc, err := searchuc.New(
		inventory.Default(),
		ratelimit.New(store, ratelimit.DefaultLimit, ratelimit.DefaultWindow),
		respcache.New(store, respcache.DefaultTTL, nil),
		gen,
	)
	if err != nil {
		t.Fatalf("search.New: %v", err)
	}
	if timeout > 0 {
		svc.WithTimeout(timeout)
	}

	srv := NewServer(svc, healthuc.New(store, gen))
	return &testServer{
		srv:     srv,
		handler: NewRouter(srv, RouterConfig{}),
		gen:     gen,
	}
}

func (ts *testServer) search(t *testing.T, clientID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("X-Forwarded-For", clientID)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return resp.Error
}
