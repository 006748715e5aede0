// Package dataset implements the solar tracker dataset pipeline: it
// resolves a symbolic calculation period into a timestamp range, drives
// a fixed-interval sampling loop across it, extracts per-day sun
// events, and writes every sample and day summary in matched CSV and
// binary form for the embedded tracker controller.
package dataset

import (
	"errors"
	"fmt"
	"time"
)

// Symbolic calculation period codes.
const (
	PeriodNextDay     = "nd" // tomorrow
	PeriodNextMonth   = "nm" // 1st of next month, one month
	PeriodNextQuarter = "nq" // reserved
	PeriodNextYear    = "ny" // Jan 1 of next year, one year
	PeriodThisDay     = "td" // today
	PeriodThisMonth   = "tm" // 1st of this month, one month
	PeriodThisQuarter = "tq" // reserved
	PeriodThisYear    = "ty" // Jan 1 of this year, one year
	PeriodTwoYears    = "2y" // Jan 1 of this year, two years
	PeriodTenYears    = "tf" // Jan 1 of this year, ten years
)

var (
	ErrInvalidPeriod        = errors.New("invalid calculation period")
	ErrPeriodNotImplemented = errors.New("calculation period not implemented")
)

// ResolvePeriod maps a symbolic period code and a reference date to a
// half-open [start, end) range. Both boundaries sit on local midnight
// of the reference date's time zone. The quarter codes nq/tq are
// reserved and rejected explicitly so they cannot silently produce an
// empty dataset.
func ResolvePeriod(code string, now time.Time) (start, end time.Time, err error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch code {
	case PeriodNextDay:
		start = midnight.AddDate(0, 0, 1)
		end = midnight.AddDate(0, 0, 2)
	case PeriodNextMonth:
		start = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month()+2, 1, 0, 0, 0, 0, now.Location())
	case PeriodNextYear:
		start = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year()+2, time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodThisDay:
		start = midnight
		end = midnight.AddDate(0, 0, 1)
	case PeriodThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	case PeriodThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodTwoYears:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year()+2, time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodTenYears:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year()+10, time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodNextQuarter, PeriodThisQuarter:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrPeriodNotImplemented, code)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, code)
	}

	return start, end, nil
}
