package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"farefeed-api/api/dto/responses"
	"farefeed-api/core/fares"
	"farefeed-api/core/feed"
	"farefeed-api/core/interfaces"
	"farefeed-api/core/stations"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// mapCache is a minimal in-memory cache for wiring the handler under test
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

// stubUpstream scripts the locations and search endpoints
type stubUpstream struct {
	locations func() (interfaces.Response, error)
	search    func(body []byte) (interfaces.Response, error)
}

func (u *stubUpstream) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return u.locations()
}

func (u *stubUpstream) Post(ctx context.Context, url string, body []byte, headers http.Header) (interfaces.Response, error) {
	return u.search(body)
}

func locationsBody() []byte {
	return []byte(`{"environment":"prod","data":[` +
		`{"name":"Birmingham New Street","code":"BHM","nlc":"1127"},` +
		`{"name":"London Euston","code":"EUS","nlc":"1444"}]}`)
}

func searchBody(departure string) []byte {
	return []byte(`{"data":{"outward":[{"id":"j1","departure-time":"` + departure +
		`","arrival-time":"` + departure + `","cheapest-price":4550,"messages":{"message-text":""},` +
		`"changes":0,"unavailable":false,"single-fares":{"standard-class":[` +
		`{"id":"f1","price":4550,"fare-class":"standard","fare-name":"Advance Single"}]}}]}}`)
}

func newTestHandler(t *testing.T, upstream *stubUpstream, now time.Time) *FeedHandler {
	t.Helper()

	deps := interfaces.Dependencies{
		Cache:      newMapCache(),
		HTTPClient: upstream,
		Logger:     nopLogger{},
	}

	stationSvc := stations.NewService(deps, "https://example.test/locations")
	policy := fares.RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, Multiplier: 1, MaxInterval: time.Millisecond}
	client := fares.NewClient(deps, "https://example.test/search", nil, policy)
	selector := fares.Selector{Currency: "£", NotFoundText: "Not found", NotAvailableText: "Not available"}
	dispatcher := fares.NewDispatcher(client, selector, nopLogger{})
	feedSvc := feed.NewService("example.com", "https://www.example.com/", "https://www.example.com/favicon.ico")

	handler := NewFeedHandler(stationSvc, dispatcher, feedSvc, nopLogger{}, 4, false)
	handler.now = func() time.Time { return now }
	return handler
}

func TestHandleJourney_ReturnsFeed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	upstream := &stubUpstream{
		locations: func() (interfaces.Response, error) {
			return &stubResponse{status: 200, body: locationsBody()}, nil
		},
		search: func(body []byte) (interfaces.Response, error) {
			var payload struct {
				OutwardTime string `json:"outward-time"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, err
			}
			return &stubResponse{status: 200, body: searchBody(strings.TrimSuffix(payload.OutwardTime, "Z"))}, nil
		},
	}
	handler := newTestHandler(t, upstream, now)

	req := httptest.NewRequest("GET", "/journey?from=bhm&to=eus&at=0800&on=20240304&weeks=1", nil)
	rec := httptest.NewRecorder()
	handler.HandleJourney(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status is %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != responses.ContentType {
		t.Errorf("content type is %q, want %q", ct, responses.ContentType)
	}

	var result responses.JSONFeed
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.Version != responses.JSONFeedVersionURL {
		t.Errorf("feed version is %q", result.Version)
	}
	if result.Title != "example.com - BHM>EUS" {
		t.Errorf("feed title is %q", result.Title)
	}
	if len(result.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(result.Items))
	}
	if result.Items[0].Title != "example.com - BHM>EUS - 2024-03-04T08:00" {
		t.Errorf("first item title is %q", result.Items[0].Title)
	}
	if result.Items[1].Title != "example.com - BHM>EUS - 2024-03-11T08:00" {
		t.Errorf("second item title is %q", result.Items[1].Title)
	}
	if result.Items[0].ContentText != "£45.50 (Advance Single)" {
		t.Errorf("first item content is %q", result.Items[0].ContentText)
	}
}

func TestHandleJourney_CollectsAllValidationFailures(t *testing.T) {
	handler := newTestHandler(t, &stubUpstream{}, time.Now())

	req := httptest.NewRequest("GET", "/journey?from=B1M&at=morning&on=soonish&weeks=two", nil)
	rec := httptest.NewRecorder()
	handler.HandleJourney(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status is %d, want 400", rec.Code)
	}

	var result responses.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	for _, rule := range []string{"Invalid station code(s)", "Invalid departure time", "Invalid departure date", "Invalid week count"} {
		if !strings.Contains(result.Error, rule) {
			t.Errorf("error %q missing %q", result.Error, rule)
		}
	}
}

func TestHandleJourney_UnknownStationIsValidationFailure(t *testing.T) {
	upstream := &stubUpstream{
		locations: func() (interfaces.Response, error) {
			return &stubResponse{status: 200, body: locationsBody()}, nil
		},
	}
	handler := newTestHandler(t, upstream, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("GET", "/journey?from=XXX&to=EUS&at=0800&on=20240304", nil)
	rec := httptest.NewRecorder()
	handler.HandleJourney(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status is %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing station id(s)") {
		t.Errorf("body %q missing station id failure", rec.Body.String())
	}
}

func TestHandleJourney_UpstreamFailureMasksDetail(t *testing.T) {
	upstream := &stubUpstream{
		locations: func() (interfaces.Response, error) {
			return &stubResponse{status: 200, body: locationsBody()}, nil
		},
		search: func(body []byte) (interfaces.Response, error) {
			return &stubResponse{status: 403, body: []byte(`{"errors":[{"title":"40301","detail":"key revoked"}]}`)}, nil
		},
	}
	handler := newTestHandler(t, upstream, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("GET", "/journey?at=0800&on=20240304", nil)
	rec := httptest.NewRecorder()
	handler.HandleJourney(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status is %d, want 403", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "key revoked") {
		t.Errorf("upstream detail leaked outside debug mode: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Upstream service error") {
		t.Errorf("body %q missing generic upstream message", rec.Body.String())
	}
}

func TestHandleCron_ReturnsFeedWithCronTitle(t *testing.T) {
	// Friday noon; the default weekday-0800 job next fires Monday.
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	upstream := &stubUpstream{
		locations: func() (interfaces.Response, error) {
			return &stubResponse{status: 200, body: locationsBody()}, nil
		},
		search: func(body []byte) (interfaces.Response, error) {
			var payload struct {
				OutwardTime string `json:"outward-time"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, err
			}
			return &stubResponse{status: 200, body: searchBody(strings.TrimSuffix(payload.OutwardTime, "Z"))}, nil
		},
	}
	handler := newTestHandler(t, upstream, now)

	req := httptest.NewRequest("GET", "/cron?count=2", nil)
	rec := httptest.NewRecorder()
	handler.HandleCron(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status is %d, body %s", rec.Code, rec.Body.String())
	}

	var result responses.JSONFeed
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.Title != "example.com - BHM>EUS - 0 8 * * 1-5" {
		t.Errorf("feed title is %q", result.Title)
	}
	if len(result.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(result.Items))
	}
	if result.Items[0].Title != "example.com - BHM>EUS - 2024-03-04T08:00" {
		t.Errorf("first item title is %q", result.Items[0].Title)
	}
}

func TestHandleCron_RejectsCountAboveLimit(t *testing.T) {
	handler := newTestHandler(t, &stubUpstream{}, time.Now())

	req := httptest.NewRequest("GET", "/cron?count=9", nil)
	rec := httptest.NewRecorder()
	handler.HandleCron(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status is %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid count") {
		t.Errorf("body %q missing count failure", rec.Body.String())
	}
}
