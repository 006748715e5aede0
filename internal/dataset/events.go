package dataset

import (
	"math"
	"time"

	"github.com/fm4dd/suncalc/pkg/spa"
)

// DayEvents aggregates the sun events of one calendar day. Angles are
// rounded to whole degrees to fit the compact day-summary record.
type DayEvents struct {
	Date time.Time

	Rise        time.Time
	RiseAzimuth uint16

	Transit          time.Time
	TransitElevation int16

	Set        time.Time
	SetAzimuth uint16
}

// splitFractionalHour decomposes a fractional hour by truncation:
// 5.75 becomes 05:45:00. The embedded reader reconstructs times the
// same way, so no rounding is applied at any step.
func splitFractionalHour(v float64) (hour, min, sec int) {
	hour = int(v)
	fmin := 60 * (v - float64(hour))
	min = int(fmin)
	sec = int(60 * (fmin - float64(min)))
	return hour, min, sec
}

// eventTime pins a fractional hour onto the calendar day of date.
func eventTime(date time.Time, fractionalHour float64) time.Time {
	h, m, s := splitFractionalHour(fractionalHour)
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, date.Location())
}

// DayEvents derives the day's sunrise, transit and sunset from the
// fractional-hour fields of the day's first sample. The event angles
// are not part of the time fields: sunrise and sunset azimuth come from
// secondary oracle calls at the derived instants, and the transit
// elevation is 90 minus the zenith distance at the transit instant.
func (a *OracleAdapter) DayEvents(date time.Time, first spa.Result) DayEvents {
	ev := DayEvents{
		Date:    date,
		Rise:    eventTime(date, first.Sunrise),
		Transit: eventTime(date, first.Suntransit),
		Set:     eventTime(date, first.Sunset),
	}

	rise := a.At(ev.Rise)
	ev.RiseAzimuth = uint16(math.Round(rise.Azimuth))

	transit := a.At(ev.Transit)
	ev.TransitElevation = int16(math.Round(90 - transit.Zenith))

	set := a.At(ev.Set)
	ev.SetAzimuth = uint16(math.Round(set.Azimuth))

	return ev
}
