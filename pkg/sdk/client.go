package tripfinder

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripfinder/internal/db"
	"github.com/kailas-cloud/tripfinder/internal/db/memory"
	dbRedis "github.com/kailas-cloud/tripfinder/internal/db/redis"
	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/query"
	"github.com/kailas-cloud/tripfinder/internal/metrics"
	"github.com/kailas-cloud/tripfinder/internal/repository/ratelimit"
	"github.com/kailas-cloud/tripfinder/internal/repository/respcache"
	openaiGen "github.com/kailas-cloud/tripfinder/internal/transport/openai"
	healthuc "github.com/kailas-cloud/tripfinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripfinder/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultModel            = "gpt-4o-mini"
	// clientID keys the rate limit bucket shared by every call on one Client.
	clientID = "sdk"
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, clientID string, in query.Input) (match.Response, error)
	Inventory() *inventory.Inventory
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the tripfinder SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With WithRedis or WithValkey the provided context
// bounds the initial readiness check; otherwise state is kept in memory.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	inv := inventory.Default()
	if cfg.inventorySet {
		var err error
		inv, err = inventory.New(toInternalItems(cfg.items))
		if err != nil {
			return nil, fmt.Errorf("tripfinder: inventory: %w", err)
		}
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("tripfinder: store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, inv, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "":
		return memory.NewStore(), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			Standalone: cfg.standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("tripfinder: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("tripfinder: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, inv *inventory.Inventory, cfg *clientConfig, obs *observer) (*Client, error) {
	gen := newGenerator(cfg)

	var cacheTotal, outcomes *prometheus.CounterVec
	if cfg.metricsReg != nil {
		metrics.MustRegisterTo(cfg.metricsReg)
		cacheTotal, outcomes = metrics.SearchCacheTotal, metrics.SearchOutcomesTotal
	}

	cache := respcache.New(store, cfg.cacheTTL, cacheTotal)

	var limiter searchuc.RateLimiter = unlimited{}
	if cfg.rateLimit > 0 {
		limiter = ratelimit.New(store, cfg.rateLimit, cfg.rateWindow)
	}

	searchSvc, err := searchuc.New(inv, limiter, cache, gen)
	if err != nil {
		return nil, fmt.Errorf("tripfinder: %w", err)
	}
	searchSvc = searchSvc.WithTimeout(cfg.timeout).WithOutcomes(outcomes)

	var llm healthuc.LLMChecker
	if hc, ok := gen.(domain.HealthChecker); ok {
		llm = hc
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, llm),
		obs:       obs,
	}, nil
}

func newGenerator(cfg *clientConfig) domain.Generator {
	if cfg.generator != nil {
		return &generatorAdapter{inner: cfg.generator}
	}
	model := cfg.model
	if model == "" {
		model = defaultModel
	}
	return openaiGen.NewGenerator(&openaiGen.Config{
		BaseURL:   cfg.baseURL,
		Model:     model,
		APIKeyEnv: cfg.apiKeyEnv,
		Logger:    zap.NewNop(),
	})
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search finds up to five catalog items matching a free-text trip description.
// Errors wrap the package sentinels; use errors.Is to classify them.
func (c *Client) Search(ctx context.Context, q string) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.searchSvc.Search(ctx, clientID, query.FromText(q))
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalResponse(resp), nil
}

// Inventory returns a copy of the catalog searched by this client.
func (c *Client) Inventory() []Item {
	items := c.searchSvc.Inventory().Items()
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = fromInternalItem(it)
	}
	return out
}

// unlimited lets every request through.
type unlimited struct{}

func (unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
