// Package report implements the period-based financial aggregation engine:
// resolving a reporting period to a concrete date range, merging expense and
// sale records into a unified transaction stream, and folding that stream
// into totals, a chart-ready series, and a day-grouped activity timeline.
//
// Everything in this package is pure: no I/O, no caching, no shared state.
// Each call recomputes from the batch it is given.
package report

import (
	"errors"

	"farmledger/internal/core"
)

// Mode selects how a reporting period is derived.
type Mode string

const (
	Week    Mode = "WEEK"
	Month   Mode = "MONTH"
	Quarter Mode = "QUARTER"
	Year    Mode = "YEAR"
	Custom  Mode = "CUSTOM"
)

// ErrPeriodNotReady means a custom range is missing a bound. It is an
// expected state while the user is still typing, not a failure: the caller
// must simply not query yet.
var ErrPeriodNotReady = errors.New("custom period bounds not set")

// ErrUnknownMode is returned for a mode outside the five known values.
var ErrUnknownMode = errors.New("unknown period mode")

// Selection is the user's period choice. Month is 0-based (January = 0),
// matching the month picker; WeekOfMonth runs 1-5. CustomStart/CustomEnd are
// YYYY-MM-DD strings and only consulted in Custom mode.
type Selection struct {
	Mode        Mode
	Year        int
	Month       int
	WeekOfMonth int
	CustomStart string
	CustomEnd   string
}

// Period is a resolved inclusive date range. Only Resolve constructs these,
// except that custom bounds pass through verbatim — including an inverted
// range, which aggregation treats as matching nothing.
type Period struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether d falls inside the period. An inverted period
// contains nothing.
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Resolve turns a Selection into a concrete inclusive date range.
//
// Week ranges are day (week-1)*7+1 through week*7 of the selected month;
// week 5 of a short month intentionally rolls into the next month, matching
// the entry form's end-of-week dating. Month ends are computed as day 0 of
// the following month, so leap Februaries come out right. A custom selection
// with a missing bound resolves to ErrPeriodNotReady.
func Resolve(sel Selection) (Period, error) {
	switch sel.Mode {
	case Week:
		startDay := 1 + (sel.WeekOfMonth-1)*7
		endDay := sel.WeekOfMonth * 7
		return Period{
			Start: core.NewDate(sel.Year, sel.Month+1, startDay),
			End:   core.NewDate(sel.Year, sel.Month+1, endDay),
		}, nil
	case Month:
		return Period{
			Start: core.NewDate(sel.Year, sel.Month+1, 1),
			End:   core.NewDate(sel.Year, sel.Month+2, 0),
		}, nil
	case Quarter:
		q := sel.Month / 3
		return Period{
			Start: core.NewDate(sel.Year, q*3+1, 1),
			End:   core.NewDate(sel.Year, q*3+4, 0),
		}, nil
	case Year:
		return Period{
			Start: core.NewDate(sel.Year, 1, 1),
			End:   core.NewDate(sel.Year, 12, 31),
		}, nil
	case Custom:
		if sel.CustomStart == "" || sel.CustomEnd == "" {
			return Period{}, ErrPeriodNotReady
		}
		start, err := core.ParseDate(sel.CustomStart)
		if err != nil {
			return Period{}, err
		}
		end, err := core.ParseDate(sel.CustomEnd)
		if err != nil {
			return Period{}, err
		}
		// Returned uncorrected even if start > end.
		return Period{Start: start, End: end}, nil
	default:
		return Period{}, ErrUnknownMode
	}
}

// CurrentWeekOfMonth maps a day of month onto the 1-5 week picker, clamping
// day 29-31 into week 5. Used to preselect the current week.
func CurrentWeekOfMonth(today core.Date) int {
	week := (today.Day() + 6) / 7
	if week > 5 {
		week = 5
	}
	return week
}
