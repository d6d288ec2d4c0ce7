// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, and upstream settings

package config

import (
	"errors"
	"net/http"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Upstream contains the ticket-search service configuration
	Upstream UpstreamConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// Debug enables detailed upstream error bodies in API responses
	Debug bool
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int
}

// UpstreamConfig holds the upstream ticket-search service configuration.
// All values are read-only process-wide state, constructed once before any
// dispatch and never mutated during a query's lifetime.
type UpstreamConfig struct {
	// Domain is the operator domain used in feed titles
	Domain string

	// BaseURL is the operator home page, used as feed and item link
	BaseURL string

	// FaviconURL is the feed favicon
	FaviconURL string

	// LocationsURL is the station directory endpoint
	LocationsURL string

	// SearchURL is the fare search endpoint
	SearchURL string

	// AppKey and AppVersion identify the client to the mobile API
	AppKey     string
	AppVersion string

	// SearchCacheTTL is the fare search response cache lifetime in seconds
	SearchCacheTTL int

	// Currency is the symbol prefixed to formatted fares
	Currency string

	// NotFoundText is the sentinel for a domain-empty result
	NotFoundText string

	// NotAvailableText is returned when no fare record matches the
	// journey's reported cheapest price
	NotAvailableText string

	// QueryLimit bounds the occurrence count of cron queries
	QueryLimit int
}

// SearchHeaders returns the request headers the mobile search endpoint expects.
func (u UpstreamConfig) SearchHeaders() http.Header {
	return http.Header{
		"Accept-Encoding": {"gzip"},
		"Appversion":      {u.AppVersion},
		"Content-Type":    {"application/json; charset=UTF-8"},
		"User-Agent":      {"okhttp/4.10.0"},
		"X-App-Key":       {u.AppKey},
		"X-App-Platform":  {"Android"},
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	domain := getEnvOrDefault("UPSTREAM_DOMAIN", "gwr.com")
	apiURL := getEnvOrDefault("UPSTREAM_API_URL", "https://api."+domain)
	baseURL := getEnvOrDefault("UPSTREAM_BASE_URL", "https://www."+domain)
	mobileURL := getEnvOrDefault("UPSTREAM_MOBILE_URL", "https://prod.mobileapi."+domain)

	cfg := &Config{
		Server: ServerConfig{
			Port:  getEnvOrDefault("PORT", "8000"),
			Debug: getEnvOrDefault("DEBUG", "") != "",
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 300),
				CleanupInterval:   getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP", 600),
			},
		},
		Upstream: UpstreamConfig{
			Domain:           domain,
			BaseURL:          baseURL,
			FaviconURL:       baseURL + "/img/favicons/favicon.ico",
			LocationsURL:     apiURL + "/rail/locations",
			SearchURL:        mobileURL + "/api/v3/train/ticket/search",
			AppKey:           getEnvOrDefault("UPSTREAM_APP_KEY", "69a273923b31ee667d3593235f91211be1a34232"),
			AppVersion:       getEnvOrDefault("UPSTREAM_APP_VERSION", "4.58.0"),
			SearchCacheTTL:   getEnvAsIntOrDefault("SEARCH_CACHE_TTL", 300),
			Currency:         getEnvOrDefault("CURRENCY_SYMBOL", "£"),
			NotFoundText:     "Not found",
			NotAvailableText: "Not available",
			QueryLimit:       getEnvAsIntOrDefault("QUERY_LIMIT", 4),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Upstream.SearchURL == "" || c.Upstream.LocationsURL == "" {
		return errors.New("upstream endpoints cannot be empty")
	}

	if c.Upstream.QueryLimit < 1 {
		return errors.New("query limit must be at least 1")
	}

	return nil
}
