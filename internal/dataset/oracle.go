package dataset

import (
	"errors"
	"time"

	"github.com/fm4dd/suncalc/internal/log"
	"github.com/fm4dd/suncalc/pkg/config"
	"github.com/fm4dd/suncalc/pkg/spa"
)

// Earth rotation parameters passed to the oracle. Good enough for
// tracker pointing until roughly 2030.
const (
	defaultDeltaUT1 = 0
	defaultDeltaT   = 67
)

// SunOracle computes the solar position for one instant.
type SunOracle interface {
	Calculate(req *spa.Request) (spa.Result, error)
}

// OracleFunc adapts a plain function to the SunOracle interface.
type OracleFunc func(req *spa.Request) (spa.Result, error)

func (f OracleFunc) Calculate(req *spa.Request) (spa.Result, error) { return f(req) }

// OracleAdapter builds position requests from timestamps and the run's
// fixed site parameters. Oracle validation errors are logged and the
// returned result is used as-is: a rejected input never stops the run.
type OracleAdapter struct {
	oracle SunOracle
	loc    config.Location
}

func NewOracleAdapter(oracle SunOracle, loc config.Location) *OracleAdapter {
	return &OracleAdapter{oracle: oracle, loc: loc}
}

// At computes the solar position at the given instant.
func (a *OracleAdapter) At(t time.Time) spa.Result {
	req := &spa.Request{
		Year:         t.Year(),
		Month:        int(t.Month()),
		Day:          t.Day(),
		Hour:         t.Hour(),
		Minute:       t.Minute(),
		Second:       float64(t.Second()),
		Timezone:     a.loc.Timezone,
		DeltaUT1:     defaultDeltaUT1,
		DeltaT:       defaultDeltaT,
		Longitude:    a.loc.Longitude,
		Latitude:     a.loc.Latitude,
		Elevation:    a.loc.Elevation,
		Pressure:     a.loc.Pressure,
		Temperature:  a.loc.Temperature,
		Slope:        a.loc.Slope,
		AzimRotation: a.loc.AzimRotation,
		AtmosRefract: a.loc.AtmosRefract,
	}

	res, err := a.oracle.Calculate(req)
	if err != nil {
		var verr *spa.ValidationError
		if errors.As(err, &verr) {
			log.Warnf("oracle rejected input at %s: %v", t.Format("2006-01-02 15:04:05"), verr)
		} else {
			log.Warnf("oracle error at %s: %v", t.Format("2006-01-02 15:04:05"), err)
		}
	}
	return res
}
