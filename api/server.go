// ABOUTME: HTTP router configuration for the fare feed API
// ABOUTME: Wires CORS, logging, and rate limiting middleware around the feed endpoints

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"farefeed-api/api/handlers"
	"farefeed-api/api/middleware"
	"farefeed-api/core/interfaces"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger    interfaces.Logger
	RateLimit rate.Limit // requests per second per client, 0 disables
	RateBurst int
}

// NewRouter creates the router with middleware and feed routes configured
func NewRouter(cfg APIConfig, feedHandler *handlers.FeedHandler) chi.Router {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	router.Get("/", feedHandler.HandleJourney)
	router.Get("/journey", feedHandler.HandleJourney)
	router.Get("/cron", feedHandler.HandleCron)

	return router
}
