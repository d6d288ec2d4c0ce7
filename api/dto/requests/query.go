// ABOUTME: Request DTOs for the journey and cron query surfaces
// ABOUTME: Parses query parameters, applies defaults, and collects every validation failure

package requests

import (
	"net/url"
	"strconv"
	"time"

	"farefeed-api/core/domain"
	cerrors "farefeed-api/core/errors"
	"farefeed-api/core/schedule"
)

// Defaults mirror the original query surface.
const (
	DefaultFromCode = "BHM"
	DefaultToCode   = "EUS"
	DefaultCronExpr = "0 8 * * 1-5" // 0800 every weekday
)

// JourneyQueryRequest is the single/repeated journey query: an explicit
// departure instant plus a count of weekly repeats.
type JourneyQueryRequest struct {
	FromCode string
	ToCode   string
	TimeStr  string // HHMM
	DateStr  string // YYYYMMDD
	WeeksStr string
}

// ParseJourneyQuery reads the journey query parameters, falling back to
// defaults for anything missing.
func ParseJourneyQuery(params url.Values, now time.Time) JourneyQueryRequest {
	return JourneyQueryRequest{
		FromCode: valueOrDefault(params.Get("from"), DefaultFromCode),
		ToCode:   valueOrDefault(params.Get("to"), DefaultToCode),
		TimeStr:  valueOrDefault(params.Get("at"), now.Format("1504")),
		DateStr:  valueOrDefault(params.Get("on"), now.Format("20060102")),
		WeeksStr: valueOrDefault(params.Get("weeks"), "0"),
	}
}

// Validate checks every rule and reports all violations together.
func (r JourneyQueryRequest) Validate() *cerrors.ValidationError {
	ve := &cerrors.ValidationError{}

	validateStationCodes(r.FromCode, r.ToCode, ve)

	if !isNumeric(r.TimeStr) || len(r.TimeStr) != 4 {
		ve.Add("Invalid departure time")
	}
	if !isNumeric(r.DateStr) || len(r.DateStr) != 8 {
		ve.Add("Invalid departure date")
	}
	if !isNumeric(r.WeeksStr) {
		ve.Add("Invalid week count")
	}

	return ve
}

// Schedule builds the datetime schedule. Callers must have validated the
// request first.
func (r JourneyQueryRequest) Schedule(now time.Time) (domain.Schedule, error) {
	given, err := time.ParseInLocation("20060102 1504", r.DateStr+" "+r.TimeStr, now.Location())
	if err != nil {
		return domain.Schedule{}, err
	}

	weeks, err := strconv.Atoi(r.WeeksStr)
	if err != nil {
		return domain.Schedule{}, err
	}

	return domain.Schedule{
		Kind:       domain.ScheduleDatetime,
		Departure:  normalizeDeparture(given, now),
		WeeksAhead: weeks,
	}, nil
}

// normalizeDeparture keeps a future instant as-is. A past instant resolves
// to today's occurrence of the requested time if that is still ahead,
// otherwise tomorrow's.
func normalizeDeparture(given, now time.Time) time.Time {
	if !given.Before(now) {
		return given
	}

	later := time.Date(now.Year(), now.Month(), now.Day(),
		given.Hour(), given.Minute(), 0, 0, now.Location())
	if later.After(now) {
		return later
	}
	return later.AddDate(0, 0, 1)
}

// CronQueryRequest is the recurring journey query: a cron expression, an
// occurrence count and a number of weeks to skip.
type CronQueryRequest struct {
	FromCode     string
	ToCode       string
	JobStr       string
	CountStr     string
	SkipWeeksStr string

	// countLimit bounds the occurrence count, set at parse time.
	countLimit int
}

// ParseCronQuery reads the cron query parameters, falling back to defaults
// for anything missing. countLimit bounds the occurrence count.
func ParseCronQuery(params url.Values, countLimit int) CronQueryRequest {
	return CronQueryRequest{
		FromCode:     valueOrDefault(params.Get("from"), DefaultFromCode),
		ToCode:       valueOrDefault(params.Get("to"), DefaultToCode),
		JobStr:       valueOrDefault(params.Get("job"), DefaultCronExpr),
		CountStr:     valueOrDefault(params.Get("count"), strconv.Itoa(countLimit)),
		SkipWeeksStr: valueOrDefault(params.Get("skip_weeks"), "0"),
		countLimit:   countLimit,
	}
}

// Validate checks every rule and reports all violations together.
func (r CronQueryRequest) Validate() *cerrors.ValidationError {
	ve := &cerrors.ValidationError{}

	validateStationCodes(r.FromCode, r.ToCode, ve)

	if !schedule.IsValidCron(r.JobStr) {
		ve.Add("Invalid cron expression")
	}

	if count, err := strconv.Atoi(r.CountStr); err != nil || count < 1 || count > r.countLimit {
		ve.Add("Invalid count")
	}

	if !isNumeric(r.SkipWeeksStr) {
		ve.Add("Invalid skipped week count")
	}

	return ve
}

// Schedule builds the cron schedule. Callers must have validated the
// request first.
func (r CronQueryRequest) Schedule() (domain.Schedule, error) {
	count, err := strconv.Atoi(r.CountStr)
	if err != nil {
		return domain.Schedule{}, err
	}

	skipWeeks, err := strconv.Atoi(r.SkipWeeksStr)
	if err != nil {
		return domain.Schedule{}, err
	}

	return domain.Schedule{
		Kind:      domain.ScheduleCron,
		CronExpr:  r.JobStr,
		Count:     count,
		SkipWeeks: skipWeeks,
	}, nil
}

// validateStationCodes checks both codes are 3 alphabetic letters.
func validateStationCodes(from, to string, ve *cerrors.ValidationError) {
	if !isAlpha(from) || len(from) != 3 || !isAlpha(to) || len(to) != 3 {
		ve.Add("Invalid station code(s)")
	}
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
