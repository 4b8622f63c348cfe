package tripfinder

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver     string // "", "valkey" or "redis"
	addrs      []string
	password   string
	standalone bool

	baseURL   string
	model     string
	apiKeyEnv string
	generator Generator

	timeout      time.Duration
	cacheTTL     time.Duration
	rateLimit    int
	rateWindow   time.Duration
	items        []Item
	inventorySet bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores cache entries and rate limit counters in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores cache entries and rate limit counters in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithStandalone disables cluster topology discovery.
func WithStandalone() Option {
	return optionFunc(func(c *clientConfig) {
		c.standalone = true
	})
}

// WithOpenAI configures an OpenAI-compatible chat completion endpoint.
// An empty baseURL uses the vendor default. apiKeyEnv names the environment
// variable holding the key; it is read on every call.
func WithOpenAI(baseURL, model, apiKeyEnv string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
		c.model = model
		c.apiKeyEnv = apiKeyEnv
	})
}

// WithGenerator replaces the LLM backend. Takes precedence over WithOpenAI.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithTimeout bounds a single LLM call. Default: 15s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithCacheTTL sets how long responses are cached. Default: 5m.
func WithCacheTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = d
	})
}

// WithRateLimit caps searches per window for this client.
// Without it the embedded client is not rate limited.
func WithRateLimit(limit int, window time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateLimit = limit
		c.rateWindow = window
	})
}

// WithInventory replaces the built-in catalog.
func WithInventory(items []Item) Option {
	return optionFunc(func(c *clientConfig) {
		c.items = items
		c.inventorySet = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK and pipeline metrics on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
