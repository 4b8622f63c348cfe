package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripfinder/internal/config"
	"github.com/kailas-cloud/tripfinder/internal/db"
	"github.com/kailas-cloud/tripfinder/internal/db/memory"
	dbRedis "github.com/kailas-cloud/tripfinder/internal/db/redis"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	logpkg "github.com/kailas-cloud/tripfinder/internal/logger"
	"github.com/kailas-cloud/tripfinder/internal/metrics"
	"github.com/kailas-cloud/tripfinder/internal/repository/ratelimit"
	"github.com/kailas-cloud/tripfinder/internal/repository/respcache"
	chiTransport "github.com/kailas-cloud/tripfinder/internal/transport/chi"
	openaiGen "github.com/kailas-cloud/tripfinder/internal/transport/openai"
	healthuc "github.com/kailas-cloud/tripfinder/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tripfinder/internal/usecase/search"
	"github.com/kailas-cloud/tripfinder/internal/version"
)

func main() {
	// .env is optional; real environment wins over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tripfinder API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Strings("store_addrs", cfg.Store.Addrs),
		zap.String("llm_model", cfg.LLM.Model),
	)

	if _, ok := os.LookupEnv(cfg.LLM.APIKeyEnv); !ok {
		// Not fatal: searches answer 500 until the variable appears.
		logger.Warn("LLM credential not set", zap.String("env_var", cfg.LLM.APIKeyEnv))
	}

	store, err := newStore(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}
	logger.Info("Store ready")

	// Register metrics explicitly (no init())
	metrics.Register()
	metrics.InitOutcomes(searchuc.Outcomes)

	limiter := ratelimit.New(store, cfg.Search.RateLimit, time.Duration(cfg.Search.RateWindowSec)*time.Second).
		WithPrefix(cfg.Store.KeyPrefix)
	cache := respcache.New(store, time.Duration(cfg.Search.CacheTTLSec)*time.Second, metrics.SearchCacheTotal).
		WithPrefix(cfg.Store.KeyPrefix)

	generator := openaiGen.NewGenerator(&openaiGen.Config{
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Provider:  cfg.LLM.Provider,
		MaxRPS:    cfg.LLM.MaxRPS,
		Burst:     cfg.LLM.Burst,
		Logger:    logger,
	})

	searchSvc, err := searchuc.New(inventory.Default(), limiter, cache, generator)
	if err != nil {
		logger.Fatal("Failed to create search service", zap.Error(err))
	}
	searchSvc = searchSvc.
		WithTimeout(time.Duration(cfg.LLM.TimeoutMs) * time.Millisecond).
		WithOutcomes(metrics.SearchOutcomesTotal)

	healthSvc := healthuc.New(store, generator)

	server := chiTransport.NewServer(searchSvc, healthSvc)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys: cfg.Auth.APIKeys,
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore picks the KV backend. Valkey speaks the Redis protocol, so both use rueidis.
func newStore(cfg config.StoreConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
