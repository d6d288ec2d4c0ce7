// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"farefeed-api/api/dto/responses"
	"farefeed-api/core/domain"
)

// ToJSONFeed converts a domain Feed to its JSON Feed 1.1 wire form
func ToJSONFeed(feed domain.Feed) responses.JSONFeed {
	items := make([]responses.JSONFeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, responses.JSONFeedItem{
			ID:            item.ID,
			URL:           item.URL,
			Title:         item.Title,
			ContentText:   item.ContentText,
			ContentHTML:   item.ContentHTML,
			DatePublished: item.DatePublished,
		})
	}

	return responses.JSONFeed{
		Version:     responses.JSONFeedVersionURL,
		Title:       feed.Title,
		HomePageURL: feed.HomePageURL,
		Favicon:     feed.FaviconURL,
		Items:       items,
	}
}
