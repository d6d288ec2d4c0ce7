// ABOUTME: Station directory service resolves 3-letter station codes to NLC identifiers
// ABOUTME: Fetches the upstream locations endpoint and caches the mapping without expiry

package stations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"farefeed-api/core/domain"
	"farefeed-api/core/interfaces"
)

const directoryCacheKey = "stations:directory"

// ErrUnknownStation is returned when a code has no entry in the directory.
var ErrUnknownStation = errors.New("unknown station code")

// Service resolves station codes against the upstream locations directory.
type Service struct {
	deps         interfaces.Dependencies
	locationsURL string
}

// NewService creates a new station directory service
func NewService(deps interfaces.Dependencies, locationsURL string) *Service {
	return &Service{
		deps:         deps,
		locationsURL: locationsURL,
	}
}

// StationID resolves a 3-letter station code to its NLC identifier.
func (s *Service) StationID(ctx context.Context, code string) (string, error) {
	directory, err := s.directory(ctx)
	if err != nil {
		return "", err
	}

	nlc, ok := directory[strings.ToUpper(code)]
	if !ok {
		s.deps.Logger.Error("No matching station for code", map[string]interface{}{
			"code": code,
		})
		return "", fmt.Errorf("%w: %s", ErrUnknownStation, code)
	}

	return nlc, nil
}

// directory returns the code to NLC mapping, fetching it at most once.
// The station list changes rarely, so the cached copy never expires.
func (s *Service) directory(ctx context.Context) (map[string]string, error) {
	if data, err := s.deps.Cache.Get(ctx, directoryCacheKey); err == nil {
		var cached map[string]string
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	directory, err := s.fetchDirectory(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(directory); err == nil {
		_ = s.deps.Cache.Set(ctx, directoryCacheKey, data, 0)
	}

	return directory, nil
}

// fetchDirectory retrieves and parses the locations endpoint.
func (s *Service) fetchDirectory(ctx context.Context) (map[string]string, error) {
	s.deps.Logger.Debug("Querying locations endpoint", map[string]interface{}{
		"url": s.locationsURL,
	})

	resp, err := s.deps.HTTPClient.Get(ctx, s.locationsURL)
	if err != nil {
		return nil, fmt.Errorf("station directory request failed: %w", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("station directory returned HTTP %d", resp.StatusCode())
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, err
	}

	var parsed domain.StationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("station directory payload malformed: %w", err)
	}

	directory := make(map[string]string, len(parsed.Data))
	for _, station := range parsed.Data {
		directory[strings.ToUpper(station.Code)] = station.NLC
	}

	return directory, nil
}
