package fares

import (
	"fmt"
	"strings"
	"time"

	"farefeed-api/core/domain"
)

// Selector picks the relevant journey and fare from a search outcome and
// formats the resolved fare text. It is a pure value: identical input
// always yields identical output.
type Selector struct {
	// Currency is the symbol prefixed to formatted prices.
	Currency string

	// NotFoundText is returned when no journey survives filtering.
	NotFoundText string

	// NotAvailableText is returned when no fare record matches the
	// journey's reported cheapest price, a data anomaly distinct from
	// an empty result.
	NotAvailableText string
}

// hasDeparted reports whether the journey's status text marks it as gone.
// The upstream only signals this through free text, so the check is a
// substring match. Kept behind this one predicate so it can be hardened
// without touching the selection logic.
func hasDeparted(message domain.Message) bool {
	return strings.Contains(message.MessageText, "already departed")
}

// Resolve returns the fare text for the journey closest to instant, or the
// not-found sentinel when nothing usable was returned.
func (s Selector) Resolve(journeys []domain.Journey, instant time.Time) string {
	var closest *domain.Journey
	for i := range journeys {
		journey := &journeys[i]
		if journey.DepartureTime.Before(instant) || hasDeparted(journey.Messages) {
			continue
		}
		// First minimum wins; departure instants are assumed unique
		if closest == nil || journey.DepartureTime.Before(closest.DepartureTime.Time) {
			closest = journey
		}
	}

	if closest == nil {
		return s.NotFoundText
	}

	cheapest := closest.CheapestPrice
	for _, fare := range closest.SingleFares.StandardClass {
		if fare.Price == cheapest {
			return s.formatFare(cheapest, fare.FareName)
		}
	}

	return s.NotAvailableText
}

// formatFare renders a minor-currency-unit price with the fare name,
// e.g. 4550 + "Advance Single" -> "£45.50 (Advance Single)".
func (s Selector) formatFare(price int, fareName string) string {
	return fmt.Sprintf("%s%.2f (%s)", s.Currency, float64(price)/100, fareName)
}
