// Package domain holds the business models for rail fare queries,
// upstream journey results, and feed output.
package domain

import (
	"errors"
	"strings"
	"time"
)

// ScheduleKind selects how candidate departure instants are derived.
type ScheduleKind int

const (
	// ScheduleDatetime searches one explicit instant plus optional weekly repeats.
	ScheduleDatetime ScheduleKind = iota
	// ScheduleCron searches the next occurrences of a cron expression.
	ScheduleCron
)

// Schedule describes the candidate instants a query expands into.
// Datetime mode uses Departure and WeeksAhead; cron mode uses CronExpr,
// Count and SkipWeeks.
type Schedule struct {
	Kind ScheduleKind

	// Departure is the base instant for datetime mode.
	Departure time.Time

	// WeeksAhead is the number of extra weekly repeats after Departure.
	WeeksAhead int

	// CronExpr is the recurrence rule for cron mode.
	CronExpr string

	// Count is the number of occurrences to produce in cron mode.
	Count int

	// SkipWeeks shifts the cron evaluation start boundary into the future.
	SkipWeeks int
}

// Query is a fully resolved fare query, immutable once constructed.
type Query struct {
	// FromCode and ToCode are 3-letter station codes, upper case.
	FromCode string
	ToCode   string

	// FromID and ToID are the opaque NLC identifiers resolved from the codes.
	FromID string
	ToID   string

	Schedule Schedule
}

// Journey returns the route label used in feed and log output, e.g. "BHM>EUS".
func (q Query) Journey() string {
	return strings.ToUpper(q.FromCode) + ">" + strings.ToUpper(q.ToCode)
}

// CheckDispatchable verifies the invariants that must hold before any
// upstream dispatch: both station identifiers resolved and distinct.
func (q Query) CheckDispatchable() error {
	if q.FromID == "" || q.ToID == "" {
		return errors.New("station identifiers not resolved")
	}
	if q.FromID == q.ToID {
		return errors.New("origin and destination resolve to the same station")
	}
	return nil
}
