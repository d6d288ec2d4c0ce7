package stations

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"farefeed-api/core/interfaces"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.items[key]; ok {
		return data, nil
	}
	return nil, errors.New("cache miss")
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

type stubResponse struct {
	status int
	body   []byte
}

func (r *stubResponse) StatusCode() int          { return r.status }
func (r *stubResponse) Body() io.ReadCloser      { return io.NopCloser(bytes.NewReader(r.body)) }
func (r *stubResponse) Header(key string) string { return "" }

type countingHTTPClient struct {
	gets    int
	respond func() (interfaces.Response, error)
}

func (c *countingHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	c.gets++
	return c.respond()
}

func (c *countingHTTPClient) Post(ctx context.Context, url string, body []byte, headers http.Header) (interfaces.Response, error) {
	return nil, errors.New("unexpected POST")
}

func directoryPayload() []byte {
	return []byte(`{"environment":"prod","data":[` +
		`{"name":"Birmingham New Street","code":"BHM","nlc":"1127"},` +
		`{"name":"London Euston","code":"eus","nlc":"1444"}]}`)
}

func newTestService(client interfaces.HTTPClient) *Service {
	deps := interfaces.Dependencies{
		Cache:      newMapCache(),
		HTTPClient: client,
		Logger:     nopLogger{},
	}
	return NewService(deps, "https://example.test/locations")
}

func TestStationID_ResolvesCode(t *testing.T) {
	client := &countingHTTPClient{respond: func() (interfaces.Response, error) {
		return &stubResponse{status: 200, body: directoryPayload()}, nil
	}}
	service := newTestService(client)

	id, err := service.StationID(context.Background(), "BHM")
	if err != nil {
		t.Fatalf("StationID returned error: %v", err)
	}
	if id != "1127" {
		t.Errorf("got id %q, want 1127", id)
	}
}

func TestStationID_IsCaseInsensitive(t *testing.T) {
	client := &countingHTTPClient{respond: func() (interfaces.Response, error) {
		return &stubResponse{status: 200, body: directoryPayload()}, nil
	}}
	service := newTestService(client)

	// Lookup code lowercased, directory entry lowercased: both normalize.
	id, err := service.StationID(context.Background(), "bhm")
	if err != nil {
		t.Fatalf("StationID returned error: %v", err)
	}
	if id != "1127" {
		t.Errorf("got id %q, want 1127", id)
	}

	id, err = service.StationID(context.Background(), "EUS")
	if err != nil {
		t.Fatalf("StationID returned error: %v", err)
	}
	if id != "1444" {
		t.Errorf("got id %q, want 1444", id)
	}
}

func TestStationID_CachesDirectory(t *testing.T) {
	client := &countingHTTPClient{respond: func() (interfaces.Response, error) {
		return &stubResponse{status: 200, body: directoryPayload()}, nil
	}}
	service := newTestService(client)

	for i := 0; i < 3; i++ {
		if _, err := service.StationID(context.Background(), "BHM"); err != nil {
			t.Fatalf("StationID returned error: %v", err)
		}
	}

	if client.gets != 1 {
		t.Errorf("locations endpoint fetched %d times, want 1", client.gets)
	}
}

func TestStationID_UnknownCode(t *testing.T) {
	client := &countingHTTPClient{respond: func() (interfaces.Response, error) {
		return &stubResponse{status: 200, body: directoryPayload()}, nil
	}}
	service := newTestService(client)

	_, err := service.StationID(context.Background(), "XXX")
	if !errors.Is(err, ErrUnknownStation) {
		t.Errorf("expected ErrUnknownStation, got %v", err)
	}
}

func TestStationID_UpstreamFailure(t *testing.T) {
	client := &countingHTTPClient{respond: func() (interfaces.Response, error) {
		return &stubResponse{status: 503, body: []byte("unavailable")}, nil
	}}
	service := newTestService(client)

	if _, err := service.StationID(context.Background(), "BHM"); err == nil {
		t.Error("expected error for non-200 directory response")
	}

	// A failed fetch must not be cached.
	client.respond = func() (interfaces.Response, error) {
		return &stubResponse{status: 200, body: directoryPayload()}, nil
	}
	id, err := service.StationID(context.Background(), "BHM")
	if err != nil {
		t.Fatalf("StationID returned error after recovery: %v", err)
	}
	if id != "1127" {
		t.Errorf("got id %q, want 1127", id)
	}
}

func TestStationID_MalformedPayload(t *testing.T) {
	client := &countingHTTPClient{respond: func() (interfaces.Response, error) {
		return &stubResponse{status: 200, body: []byte("<html>not json</html>")}, nil
	}}
	service := newTestService(client)

	if _, err := service.StationID(context.Background(), "BHM"); err == nil {
		t.Error("expected error for malformed directory payload")
	}
}
