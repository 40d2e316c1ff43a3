package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfassist/backend/config"
	httpDelivery "github.com/shelfassist/backend/internal/delivery/http"
	"github.com/shelfassist/backend/internal/domain"
	"github.com/shelfassist/backend/internal/infrastructure/cache"
	"github.com/shelfassist/backend/internal/infrastructure/catalog"
	"github.com/shelfassist/backend/internal/infrastructure/llm"
	"github.com/shelfassist/backend/internal/observability"
	"github.com/shelfassist/backend/internal/usecase"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 90 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 20 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "shelfassist-backend",
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("catalog_driver", cfg.Catalog.Driver).
		Str("cache_type", cfg.Cache.Type).
		Str("llm_model", cfg.LLM.Model).
		Msg("starting ShelfAssist backend v1.0.0")

	// Catalog
	store, err := catalog.Open(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if cfg.Catalog.SeedFile != "" {
		seed, err := catalog.LoadSeedFile(cfg.Catalog.SeedFile)
		if err != nil {
			return err
		}
		if err := store.Seed(ctx, seed); err != nil {
			return err
		}
		logger.Info().Str("file", cfg.Catalog.SeedFile).Int("products", len(seed.Products)).Msg("catalog seeded")
	}

	index := usecase.NewCatalogIndex(store, logger)
	if err := index.Warm(ctx); err != nil {
		// the index retries on first use
		logger.Warn().Err(err).Msg("catalog index warm-up failed")
	}

	// Cache
	answerCache, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	// Answer generator
	llmClient := llm.NewClient(llm.Config{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       float32(cfg.LLM.Temperature),
		Timeout:           cfg.LLM.Timeout,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
	}, logger)

	// Initialize usecase layer
	extractor := usecase.NewProductExtractor(index, logger, cfg.Classifier.DebugLogging)
	classifier := usecase.NewQueryClassifier(usecase.NewKeywordLexicon(), extractor, usecase.ClassifierConfig{
		ExtractLimit:       cfg.Classifier.ExtractLimit,
		ProductLimit:       cfg.Classifier.ProductLimit,
		EnableDebugLogging: cfg.Classifier.DebugLogging,
	}, logger)
	assistant := usecase.NewAssistantService(classifier, store, llmClient, answerCache, usecase.AssistantConfig{
		CacheTTL:      cfg.Cache.TTL,
		LocationLimit: cfg.Classifier.ProductLimit,
	}, logger)

	handler := httpDelivery.NewHandler(assistant, classifier, httpDelivery.NewMetrics())
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newCache builds the configured answer cache and its release function
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	if cfg.Type != "redis" {
		return cache.NewMemoryCache(cfg.TTL, 10*time.Minute), func() {}, nil
	}

	redisCfg, err := cache.RedisConfigFromURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	redisCache, err := cache.NewRedisCache(ctx, redisCfg)
	if err != nil {
		return nil, nil, err
	}
	return redisCache, func() { _ = redisCache.Close() }, nil
}
