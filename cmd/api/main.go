// ABOUTME: Main entry point for the fare feed API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"farefeed-api/api"
	"farefeed-api/api/dto/requests"
	"farefeed-api/api/handlers"
	"farefeed-api/core/fares"
	"farefeed-api/core/feed"
	"farefeed-api/core/interfaces"
	"farefeed-api/core/stations"
	"farefeed-api/core/workers"
	"farefeed-api/infrastructure/cache/memory"
	"farefeed-api/infrastructure/cache/redis"
	"farefeed-api/infrastructure/http/cached"
	stdhttp "farefeed-api/infrastructure/http/standard"
	"farefeed-api/infrastructure/logger/structured"
	"farefeed-api/pkg/config"
	"farefeed-api/pkg/featureflags"
)

func main() {
	// Optional local overrides; absence is not an error
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logLevel := "info"
	if cfg.Server.Debug {
		logLevel = "debug"
	}
	logger := structured.NewLogger(logLevel)
	logger.Info("Starting fare feed API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"upstream":   cfg.Upstream.Domain,
	})

	// Create cache
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memory.NewMemoryCache(
				time.Duration(cfg.Cache.Memory.DefaultExpiration)*time.Second,
				time.Duration(cfg.Cache.Memory.CleanupInterval)*time.Second,
			)
		} else {
			cache = redisCache
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	default:
		cache = memory.NewMemoryCache(
			time.Duration(cfg.Cache.Memory.DefaultExpiration)*time.Second,
			time.Duration(cfg.Cache.Memory.CleanupInterval)*time.Second,
		)
		logger.Info("Using memory cache", nil)
	}

	// HTTP client with search response caching
	baseClient := stdhttp.NewStandardHTTPClient(30 * time.Second)
	httpClient := cached.NewCachedHTTPClient(
		baseClient,
		cache,
		logger,
		time.Duration(cfg.Upstream.SearchCacheTTL)*time.Second,
	)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// Core services
	stationSvc := stations.NewService(deps, cfg.Upstream.LocationsURL)
	fareClient := fares.NewClient(deps, cfg.Upstream.SearchURL, cfg.Upstream.SearchHeaders(), fares.DefaultRetryPolicy())
	selector := fares.Selector{
		Currency:         cfg.Upstream.Currency,
		NotFoundText:     cfg.Upstream.NotFoundText,
		NotAvailableText: cfg.Upstream.NotAvailableText,
	}
	dispatcher := fares.NewDispatcher(fareClient, selector, logger)
	feedSvc := feed.NewService(cfg.Upstream.Domain, cfg.Upstream.BaseURL, cfg.Upstream.FaviconURL)

	flags := featureflags.NewEnvManager("")
	if flags.IsEnabled(context.Background(), featureflags.PartialFeeds) {
		dispatcher.ContinueOnError = true
		logger.Info("Partial feeds enabled", nil)
	}

	feedHandler := handlers.NewFeedHandler(
		stationSvc,
		dispatcher,
		feedSvc,
		logger,
		cfg.Upstream.QueryLimit,
		cfg.Server.Debug,
	)

	router := api.NewRouter(api.APIConfig{
		Logger:    logger,
		RateLimit: rate.Limit(1),
		RateBurst: 3,
	}, feedHandler)

	var warmup *workers.WarmupWorker
	if flags.IsEnabled(context.Background(), featureflags.CacheWarmup) {
		warmupConfig := workers.DefaultWarmupConfig()
		warmupConfig.FromCode = requests.DefaultFromCode
		warmupConfig.ToCode = requests.DefaultToCode
		warmupConfig.JourneyCron = requests.DefaultCronExpr
		warmupConfig.Count = cfg.Upstream.QueryLimit

		warmup = workers.NewWarmupWorker(stationSvc, dispatcher, logger, warmupConfig)
		if err := warmup.Start(); err != nil {
			logger.Error("Failed to start warmup worker", map[string]interface{}{
				"error": err.Error(),
			})
			warmup = nil
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	if warmup != nil {
		_ = warmup.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped", nil)
}
