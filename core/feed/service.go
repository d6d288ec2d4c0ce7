// ABOUTME: Feed service assembles per-date fare resolutions into a syndication feed
// ABOUTME: Re-orders by candidate sequence, drops absent outcomes, renders feed entries

package feed

import (
	"strings"
	"time"

	"farefeed-api/core/domain"
)

// Service builds the output feed for a resolved query. It is pure: the
// publication instant is passed in, so identical input yields identical output.
type Service struct {
	domainName string
	baseURL    string
	faviconURL string
}

// NewService creates a new feed service
func NewService(domainName, baseURL, faviconURL string) *Service {
	return &Service{
		domainName: domainName,
		baseURL:    baseURL,
		faviconURL: faviconURL,
	}
}

// Build renders one feed item per usable resolution, in the resolutions'
// order, which the dispatcher guarantees to be the original candidate
// sequence. Absent outcomes are dropped.
func (s *Service) Build(query domain.Query, resolutions []domain.Resolution, now time.Time) domain.Feed {
	titleParts := []string{s.domainName, query.Journey()}
	if query.Schedule.Kind == domain.ScheduleCron {
		titleParts = append(titleParts, query.Schedule.CronExpr)
	}

	published := now.Truncate(time.Second).Format("2006-01-02T15:04:05")

	items := make([]domain.FeedItem, 0, len(resolutions))
	for _, resolution := range resolutions {
		if !resolution.OK {
			continue
		}

		entryStamp := resolution.Instant.Format("2006-01-02T15:04")
		items = append(items, domain.FeedItem{
			ID:            published,
			URL:           s.baseURL,
			Title:         strings.Join([]string{s.domainName, query.Journey(), entryStamp}, " - "),
			ContentText:   resolution.Text,
			ContentHTML:   resolution.Text,
			DatePublished: published,
		})
	}

	return domain.Feed{
		Title:       strings.Join(titleParts, " - "),
		HomePageURL: s.baseURL,
		FaviconURL:  s.faviconURL,
		Items:       items,
	}
}
