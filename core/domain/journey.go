package domain

import (
	"fmt"
	"strings"
	"time"
)

// LocalTime unmarshals the upstream timestamp format, which may or may not
// carry a zone offset. Comparisons against candidate instants assume both
// sides share the same zone.
type LocalTime struct {
	time.Time
}

var localTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	for _, layout := range localTimeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

// Fare is one priced ticket option within a journey's fare set.
type Fare struct {
	ID        string `json:"id"`
	Price     int    `json:"price"`
	FareClass string `json:"fare-class"`
	FareName  string `json:"fare-name"`
}

// SingleFares groups the fare records of a one-way journey by class.
type SingleFares struct {
	StandardClass []Fare `json:"standard-class"`
}

// Message carries the free-text status attached to a journey. The upstream
// service reports an already-departed journey only through this text.
type Message struct {
	MessageText string `json:"message-text"`
}

// Journey is one upstream-reported journey option.
type Journey struct {
	ID            string      `json:"id"`
	DepartureTime LocalTime   `json:"departure-time"`
	ArrivalTime   LocalTime   `json:"arrival-time"`
	CheapestPrice int         `json:"cheapest-price"`
	Messages      Message     `json:"messages"`
	Changes       int         `json:"changes"`
	Unavailable   bool        `json:"unavailable"`
	SingleFares   SingleFares `json:"single-fares"`
}

// SearchData is the payload of a successful fare search.
type SearchData struct {
	Outward []Journey `json:"outward"`
}

// SearchResponse is the success shape of the upstream fare search.
type SearchResponse struct {
	Data SearchData `json:"data"`
}

// ErrorItem is one entry of the upstream error shape.
type ErrorItem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ErrorResponse is the error shape of the upstream fare search.
type ErrorResponse struct {
	Errors []ErrorItem `json:"errors"`
}
