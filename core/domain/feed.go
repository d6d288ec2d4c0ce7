package domain

import "time"

// Resolution is the outcome of one fare search for one candidate instant.
// OK is false when the upstream never produced a usable answer; such
// outcomes are dropped before rendering.
type Resolution struct {
	Instant time.Time
	Text    string
	OK      bool
}

// Feed is the assembled syndication feed for one query.
type Feed struct {
	Title       string
	HomePageURL string
	FaviconURL  string
	Items       []FeedItem
}

// FeedItem is one rendered feed entry.
type FeedItem struct {
	ID            string
	URL           string
	Title         string
	ContentText   string
	ContentHTML   string
	DatePublished string
}
