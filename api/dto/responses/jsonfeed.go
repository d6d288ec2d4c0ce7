// ABOUTME: Response DTOs for JSON Feed 1.1 output
// ABOUTME: See https://jsonfeed.org/version/1.1

package responses

// JSONFeedVersionURL identifies the JSON Feed version in the output.
const JSONFeedVersionURL = "https://jsonfeed.org/version/1.1"

// ContentType is the media type for JSON Feed responses.
const ContentType = "application/feed+json"

// JSONFeedItem represents one feed entry
type JSONFeedItem struct {
	ID            string `json:"id"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title,omitempty"`
	ContentText   string `json:"content_text,omitempty"`
	ContentHTML   string `json:"content_html,omitempty"`
	DatePublished string `json:"date_published,omitempty"`
}

// JSONFeed represents the feed top level
type JSONFeed struct {
	Version     string         `json:"version"`
	Title       string         `json:"title"`
	HomePageURL string         `json:"home_page_url,omitempty"`
	Favicon     string         `json:"favicon,omitempty"`
	Items       []JSONFeedItem `json:"items"`
}

// ErrorResponse is the error body returned by the API
type ErrorResponse struct {
	Error string `json:"error"`
}
