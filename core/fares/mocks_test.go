package fares

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"farefeed-api/core/interfaces"
)

// nopLogger discards all log output
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// mockResponse implements interfaces.Response over a byte slice
type mockResponse struct {
	status int
	body   []byte
}

func (r *mockResponse) StatusCode() int          { return r.status }
func (r *mockResponse) Body() io.ReadCloser      { return io.NopCloser(bytes.NewReader(r.body)) }
func (r *mockResponse) Header(key string) string { return "" }

// mockHTTPClient scripts POST responses and counts calls
type mockHTTPClient struct {
	mu          sync.Mutex
	postCalls   int
	lastHeaders http.Header
	respond     func(call int, url string, body []byte) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return nil, errors.New("unexpected GET")
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body []byte, headers http.Header) (interfaces.Response, error) {
	m.mu.Lock()
	m.postCalls++
	call := m.postCalls
	m.lastHeaders = headers
	m.mu.Unlock()
	return m.respond(call, url, body)
}

func (m *mockHTTPClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.postCalls
}

// fastPolicy keeps retry semantics but collapses the delays
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		Multiplier:      1,
		MaxInterval:     time.Millisecond,
	}
}

func testDeps(client interfaces.HTTPClient) interfaces.Dependencies {
	return interfaces.Dependencies{
		HTTPClient: client,
		Logger:     nopLogger{},
	}
}
