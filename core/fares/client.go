// Package fares implements the fare resolution engine: the upstream search
// client with retry and response classification, the journey selector, and
// the concurrent per-date dispatcher.
package fares

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"farefeed-api/core/domain"
	cerrors "farefeed-api/core/errors"
	"farefeed-api/core/interfaces"
)

// noFaresErrorCode is the upstream error title meaning zero journeys exist.
// It is a valid, successful-shaped outcome, never retried and never fatal.
const noFaresErrorCode = "20003"

// SearchOutcome is the classified result of one fare search: either a
// journeys payload or the domain-empty marker. Fatal failures are errors.
type SearchOutcome struct {
	Journeys []domain.Journey
	NotFound bool
}

// Client issues fare searches against the upstream ticket-search service.
type Client struct {
	deps      interfaces.Dependencies
	searchURL string
	headers   http.Header
	policy    RetryPolicy
}

// NewClient creates a new upstream fare client
func NewClient(deps interfaces.Dependencies, searchURL string, headers http.Header, policy RetryPolicy) *Client {
	return &Client{
		deps:      deps,
		searchURL: searchURL,
		headers:   headers,
		policy:    policy,
	}
}

// searchRequest is the wire shape of a one-way, one-adult search.
type searchRequest struct {
	DestinationNLC  string           `json:"destination-nlc"`
	JourneyType     string           `json:"journey-type"`
	OriginNLC       string           `json:"origin-nlc"`
	OutwardTime     string           `json:"outward-time"`
	OutwardTimeType string           `json:"outward-time-type"`
	PassengerGroups []passengerGroup `json:"passenger-groups"`
}

type passengerGroup struct {
	Adults    int `json:"adults"`
	Children  int `json:"children"`
	Railcards int `json:"number-of-railcards"`
}

// Search runs one fare search for the query departing at or after instant,
// retrying transient failures per the client's policy. The returned error is
// always fatal for the whole query.
func (c *Client) Search(ctx context.Context, query domain.Query, instant time.Time) (*SearchOutcome, error) {
	payload, err := json.Marshal(searchRequest{
		DestinationNLC:  query.ToID,
		JourneyType:     "single",
		OriginNLC:       query.FromID,
		OutwardTime:     instant.Format("2006-01-02T15:04:05") + "Z",
		OutwardTimeType: "leaving",
		PassengerGroups: []passengerGroup{{Adults: 1, Children: 0, Railcards: 0}},
	})
	if err != nil {
		return nil, err
	}

	logFields := map[string]interface{}{
		"journey": query.Journey(),
		"instant": instant.Format("2006-01-02T15:04"),
	}

	outcome, err := backoff.RetryWithData(func() (*SearchOutcome, error) {
		c.deps.Logger.Debug("Querying search endpoint", logFields)
		return c.attempt(ctx, payload)
	}, c.policy.backOff(ctx))

	if err != nil {
		c.deps.Logger.Error("Fare search failed", map[string]interface{}{
			"journey": query.Journey(),
			"instant": instant.Format("2006-01-02T15:04"),
			"error":   err.Error(),
		})
		if cerrors.IsUpstream(err) {
			return nil, err
		}
		// Transport failure after retries exhausted
		return nil, &cerrors.UpstreamError{StatusCode: 0, Detail: err.Error()}
	}

	if outcome.NotFound {
		c.deps.Logger.Info("No fares found", logFields)
	}

	return outcome, nil
}

// attempt performs a single request and classifies the response. The
// classification is decided exactly once here; downstream code only sees the
// tagged outcome or a fatal error.
func (c *Client) attempt(ctx context.Context, payload []byte) (*SearchOutcome, error) {
	resp, err := c.deps.HTTPClient.Post(ctx, c.searchURL, payload, c.headers)
	if err != nil {
		// Transport failure, retryable
		return nil, err
	}
	defer resp.Body().Close()

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		var parsed domain.SearchResponse
		if err := json.Unmarshal(body, &parsed); err != nil || parsed.Data.Outward == nil {
			return nil, backoff.Permanent(&cerrors.UpstreamError{
				StatusCode: status,
				Detail:     "malformed journeys payload",
			})
		}
		return &SearchOutcome{Journeys: parsed.Data.Outward}, nil
	}

	// An error body carrying the "no fares found" code is a well-formed
	// answer meaning zero journeys, whatever the status code says.
	var errResp domain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Errors) > 0 {
		if errResp.Errors[0].Title == noFaresErrorCode {
			return &SearchOutcome{NotFound: true}, nil
		}
	}

	detail := string(body)
	if len(detail) > 512 {
		detail = detail[:512]
	}

	upstreamErr := &cerrors.UpstreamError{StatusCode: status, Detail: detail}
	if status >= 500 || status == http.StatusTooManyRequests {
		return nil, upstreamErr
	}

	return nil, backoff.Permanent(upstreamErr)
}
