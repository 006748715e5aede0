// Package spa implements the solar position oracle consumed by the
// dataset pipeline: given one instant of local civil time plus site and
// atmosphere parameters, it returns the topocentric azimuth and zenith
// distance together with the day's sunrise, transit and sunset as local
// fractional hours. Accuracy is on the order of arcminutes, which is
// well inside the pointing tolerance of a small tracker mount.
package spa

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// Input validation error codes. The code identifies which request
// field is out of its valid range.
const (
	ErrCodeYear = iota + 1
	ErrCodeMonth
	ErrCodeDay
	ErrCodeHour
	ErrCodeMinute
	ErrCodeSecond
)

// ValidationError reports a request field outside its valid range.
type ValidationError struct {
	Code  int
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("spa: %s value %g out of valid range (error code %d)",
		e.Field, e.Value, e.Code)
}

// Request carries one instant of local civil time plus the site and
// atmosphere parameters for a position calculation.
type Request struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64

	Timezone float64 // hours east of UTC
	DeltaUT1 float64 // UT1-UTC, seconds
	DeltaT   float64 // TT-UT1, seconds

	Longitude   float64 // degrees, east positive
	Latitude    float64 // degrees, north positive
	Elevation   float64 // meters
	Pressure    float64 // millibars
	Temperature float64 // celsius

	// Slope and AzimRotation describe the tracker surface. They only
	// affect the incidence angle on the panel, which this oracle does
	// not report, and are carried for contract compatibility.
	Slope        float64
	AzimRotation float64

	// AtmosRefract is the refraction at sunrise/sunset in degrees,
	// typically 0.5667.
	AtmosRefract float64
}

// Result is the oracle response. Sunrise, Suntransit and Sunset are
// local fractional hours, e.g. 5.75 = 05:45:00.
type Result struct {
	Azimuth    float64 // degrees east of north, 0..360
	Zenith     float64 // degrees from vertical, refraction corrected
	Sunrise    float64
	Suntransit float64
	Sunset     float64
}

func (r *Request) validate() error {
	switch {
	case r.Year < -2000 || r.Year > 6000:
		return &ValidationError{ErrCodeYear, "year", float64(r.Year)}
	case r.Month < 1 || r.Month > 12:
		return &ValidationError{ErrCodeMonth, "month", float64(r.Month)}
	case r.Day < 1 || r.Day > 31:
		return &ValidationError{ErrCodeDay, "day", float64(r.Day)}
	case r.Hour < 0 || r.Hour > 24:
		return &ValidationError{ErrCodeHour, "hour", float64(r.Hour)}
	case r.Minute < 0 || r.Minute > 59:
		return &ValidationError{ErrCodeMinute, "minute", float64(r.Minute)}
	case r.Second < 0 || r.Second >= 60:
		return &ValidationError{ErrCodeSecond, "second", r.Second}
	}
	return nil
}

func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }
func fixHours(h float64) float64   { return h - 24.0*math.Floor(h/24.0) }

// Calculate computes the solar position and day events for a request.
// On a validation error the returned Result is the zero value and the
// error is a *ValidationError carrying the numbered code.
func Calculate(req *Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	sec := int(req.Second)
	nsec := int((req.Second - float64(sec)) * 1e9)
	zone := time.FixedZone("site", int(req.Timezone*3600))
	t := time.Date(req.Year, time.Month(req.Month), req.Day,
		req.Hour, req.Minute, sec, nsec, zone).UTC()

	jd := julian.TimeToJD(t)
	T := (jd - 2451545.0) / 36525.0

	// Sun geometry, Meeus ch. 25
	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(unit.AngleFromDeg(M).Rad())*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(unit.AngleFromDeg(2*M).Rad())*(0.019993-T*0.000101) +
		math.Sin(unit.AngleFromDeg(3*M).Rad())*0.000289
	sunLong := L0 + C
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(unit.AngleFromDeg(omega).Rad())
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	eps := eps0 + 0.00256*math.Cos(unit.AngleFromDeg(omega).Rad())
	decl := math.Asin(math.Sin(unit.AngleFromDeg(eps).Rad()) *
		math.Sin(unit.AngleFromDeg(lambda).Rad()))

	// Equation of time in minutes
	y := math.Tan(unit.AngleFromDeg(eps).Rad()/2) * math.Tan(unit.AngleFromDeg(eps).Rad()/2)
	eqTimeMin := radToDeg(y*math.Sin(unit.AngleFromDeg(2*L0).Rad())-
		2*e*math.Sin(unit.AngleFromDeg(M).Rad())+
		4*e*y*math.Sin(unit.AngleFromDeg(M).Rad())*math.Cos(unit.AngleFromDeg(2*L0).Rad())-
		0.5*y*y*math.Sin(unit.AngleFromDeg(4*L0).Rad())-
		1.25*e*e*math.Sin(unit.AngleFromDeg(2*M).Rad())) * 4

	// Hour angle from true solar time
	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
	tst := math.Mod(utcMin+4*req.Longitude+eqTimeMin+1440, 1440)
	ha := tst/4 - 180
	haRad := unit.AngleFromDeg(ha).Rad()

	latRad := unit.AngleFromDeg(req.Latitude).Rad()
	cosZen := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(haRad)
	cosZen = math.Max(-1, math.Min(1, cosZen))
	zenDeg := radToDeg(math.Acos(cosZen))
	e0 := 90 - zenDeg

	// Bennett refraction, applied while the sun is near or above the
	// horizon (same gate as the NREL algorithm)
	refr := 0.0
	if e0 >= -(0.26667 + req.AtmosRefract) {
		refr = (req.Pressure / 1010.0) * (283.0 / (273.0 + req.Temperature)) *
			1.02 / (60.0 * math.Tan(unit.AngleFromDeg(e0+10.3/(e0+5.11)).Rad()))
	}
	zenith := 90 - (e0 + refr)

	azRad := math.Atan2(math.Sin(haRad),
		math.Cos(haRad)*math.Sin(latRad)-math.Tan(decl)*math.Cos(latRad))
	azimuth := fixAngle(radToDeg(azRad) + 180)

	rise, transit, set := dayEvents(req, decl, eqTimeMin)

	return Result{
		Azimuth:    azimuth,
		Zenith:     zenith,
		Sunrise:    rise,
		Suntransit: transit,
		Sunset:     set,
	}, nil
}

// dayEvents returns sunrise, transit and sunset as local fractional
// hours. Polar day clamps sunrise/sunset to the day edges, polar night
// collapses both onto the transit time.
func dayEvents(req *Request, decl, eqTimeMin float64) (rise, transit, set float64) {
	transitMin := 720 - 4*req.Longitude - eqTimeMin + req.Timezone*60
	transit = fixHours(transitMin / 60)

	latRad := unit.AngleFromDeg(req.Latitude).Rad()
	h0 := unit.AngleFromDeg(90 + 0.26667 + req.AtmosRefract).Rad()
	cosH := (math.Cos(h0) - math.Sin(latRad)*math.Sin(decl)) /
		(math.Cos(latRad) * math.Cos(decl))

	switch {
	case cosH > 1: // polar night
		return transit, transit, transit
	case cosH < -1: // polar day
		return 0, transit, 23.0 + 59.0/60 + 59.0/3600
	}

	haMin := 4 * radToDeg(math.Acos(cosH))
	rise = fixHours((transitMin - haMin) / 60)
	set = fixHours((transitMin + haMin) / 60)
	return rise, transit, set
}
