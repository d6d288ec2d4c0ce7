// ABOUTME: Caching HTTP client wrapper for idempotent fare searches
// ABOUTME: Caches POST responses by exact payload with a stale-on-error fallback

package cached

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"farefeed-api/core/interfaces"
)

// CachedHTTPClient wraps another HTTPClient and serves repeated POST
// searches from a short-lived cache keyed by the exact request payload.
// Successful responses are additionally kept under a stale key without
// expiry: if refreshing an expired entry fails, the last good response is
// returned rather than failing the request.
type CachedHTTPClient struct {
	next   interfaces.HTTPClient
	cache  interfaces.Cache
	logger interfaces.Logger
	ttl    time.Duration
}

// cachedEntry is the serialized form of a cached response.
type cachedEntry struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

// NewCachedHTTPClient creates a caching wrapper around next. ttl bounds the
// freshness of cached POST responses.
func NewCachedHTTPClient(next interfaces.HTTPClient, cache interfaces.Cache, logger interfaces.Logger, ttl time.Duration) *CachedHTTPClient {
	return &CachedHTTPClient{
		next:   next,
		cache:  cache,
		logger: logger,
		ttl:    ttl,
	}
}

// Get delegates to the wrapped client. GET lookups that want caching
// (the station directory) cache at the service layer instead.
func (c *CachedHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.next.Get(ctx, url)
}

// Post serves the request from cache when a fresh entry exists, otherwise
// performs it and caches a successful response.
func (c *CachedHTTPClient) Post(ctx context.Context, url string, body []byte, headers http.Header) (interfaces.Response, error) {
	key := cacheKey(url, body)

	if data, err := c.cache.Get(ctx, "search:"+key); err == nil {
		if resp := decodeEntry(data); resp != nil {
			c.logger.Debug("Serving cached search response", map[string]interface{}{
				"url": url,
			})
			return resp, nil
		}
	}

	resp, err := c.next.Post(ctx, url, body, headers)
	if err != nil {
		return c.staleFallback(ctx, key, err)
	}

	status := resp.StatusCode()
	payload, readErr := io.ReadAll(resp.Body())
	resp.Body().Close()
	if readErr != nil {
		return c.staleFallback(ctx, key, readErr)
	}

	// Only well-formed successes are worth caching; error responses are
	// classified upstream and must not mask a later recovery.
	if status >= 200 && status < 300 {
		entry, marshalErr := json.Marshal(cachedEntry{StatusCode: status, Body: payload})
		if marshalErr == nil {
			_ = c.cache.Set(ctx, "search:"+key, entry, c.ttl)
			_ = c.cache.Set(ctx, "stale:"+key, entry, 0)
		}
	}

	return &memoryResponse{statusCode: status, body: payload}, nil
}

// staleFallback returns the last good cached response for the key, or the
// original error when none exists.
func (c *CachedHTTPClient) staleFallback(ctx context.Context, key string, cause error) (interfaces.Response, error) {
	data, err := c.cache.Get(ctx, "stale:"+key)
	if err != nil {
		return nil, cause
	}

	resp := decodeEntry(data)
	if resp == nil {
		return nil, cause
	}

	c.logger.Warn("Refresh failed, serving stale search response", map[string]interface{}{
		"error": cause.Error(),
	})
	return resp, nil
}

func decodeEntry(data []byte) *memoryResponse {
	var entry cachedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	return &memoryResponse{statusCode: entry.StatusCode, body: entry.Body}
}

func cacheKey(url string, body []byte) string {
	sum := sha256.Sum256(append([]byte(url+"\n"), body...))
	return hex.EncodeToString(sum[:])
}

// memoryResponse implements the Response interface over a buffered body
type memoryResponse struct {
	statusCode int
	body       []byte
}

// StatusCode returns the HTTP status code
func (r *memoryResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the buffered response body
func (r *memoryResponse) Body() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(r.body))
}

// Header always returns an empty string; cached entries do not retain headers
func (r *memoryResponse) Header(key string) string {
	return ""
}
