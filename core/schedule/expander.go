// Package schedule expands a query schedule into the ordered sequence of
// candidate departure instants the engine searches against.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"farefeed-api/core/domain"
)

// Expand produces the candidate instants for a schedule. Datetime mode
// yields the base instant plus one instant per extra week; cron mode yields
// the next Count occurrences of the expression, evaluated from
// now + SkipWeeks*7d. The sequence order is the search order.
func Expand(s domain.Schedule, now time.Time) ([]time.Time, error) {
	switch s.Kind {
	case domain.ScheduleDatetime:
		instants := make([]time.Time, 0, s.WeeksAhead+1)
		for week := 0; week <= s.WeeksAhead; week++ {
			instants = append(instants, s.Departure.AddDate(0, 0, 7*week))
		}
		return instants, nil

	case domain.ScheduleCron:
		spec, err := cron.ParseStandard(s.CronExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid cron expression %q: %w", s.CronExpr, err)
		}

		start := now.AddDate(0, 0, 7*s.SkipWeeks)
		instants := make([]time.Time, 0, s.Count)
		next := start
		for i := 0; i < s.Count; i++ {
			next = spec.Next(next)
			instants = append(instants, next)
		}
		return instants, nil
	}

	return nil, fmt.Errorf("unsupported schedule kind %d", s.Kind)
}

// IsValidCron reports whether expr parses as a standard 5-field cron
// expression. Calendar semantics are delegated to the cron library.
func IsValidCron(expr string) bool {
	_, err := cron.ParseStandard(expr)
	return err == nil
}
