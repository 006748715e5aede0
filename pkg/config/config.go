// Package config holds the immutable run configuration for the dataset
// generator. A Config is built once from defaults, an optional YAML
// file and command-line overrides, validated, and then passed into the
// pipeline unchanged.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors reported before any output file is created.
var (
	ErrInvalidInterval = errors.New("interval must be 60-3600 seconds and divide 86400")
	ErrInvalidTimezone = errors.New("timezone offset must be within -11..+11 hours")
	ErrInvalidLocation = errors.New("location coordinates out of range")
)

// Location describes the fixed observation site and atmosphere for a
// dataset run.
type Location struct {
	Longitude    float64 `yaml:"longitude"`     // degrees, east positive
	Latitude     float64 `yaml:"latitude"`      // degrees, north positive
	Timezone     float64 `yaml:"timezone"`      // hours east of UTC
	Elevation    float64 `yaml:"elevation"`     // meters above sea level
	Pressure     float64 `yaml:"pressure"`      // millibars
	Temperature  float64 `yaml:"temperature"`   // degrees celsius
	Slope        float64 `yaml:"slope"`         // panel surface slope, degrees
	AzimRotation float64 `yaml:"azm_rotation"`  // panel azimuth rotation, degrees
	AtmosRefract float64 `yaml:"atmos_refract"` // refraction at sunrise/sunset, degrees

	// MagDeclination is informational only. It is written to the
	// dataset descriptor so the tracker can correct a magnetic
	// compass bearing, but it never enters the position calculation.
	MagDeclination float64 `yaml:"mag_declination"`
}

// Zone returns the fixed-offset time zone of the site. All period
// resolution and sampling arithmetic runs in this zone.
func (l Location) Zone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+g", l.Timezone), int(l.Timezone*3600))
}

// Config is the complete, validated run configuration.
type Config struct {
	Location  Location `yaml:"location"`
	Interval  int      `yaml:"interval"`   // seconds between samples
	Period    string   `yaml:"period"`     // symbolic calculation period code
	OutputDir string   `yaml:"output_dir"` // dataset folder

	Catalog bool `yaml:"catalog"` // record generated days in catalog.db
	Parquet bool `yaml:"parquet"` // export samples to samples.parquet
	Archive bool `yaml:"archive"` // tar.gz the dataset folder after the run
}

// Default returns the built-in configuration: the original tracker
// site near Tokyo, one-minute sampling, next-day period.
func Default() Config {
	return Config{
		Location: Location{
			Longitude:      139.628999,
			Latitude:       35.610381,
			Timezone:       9,
			Elevation:      1000,
			Pressure:       1000,
			Temperature:    19,
			Slope:          0,
			AzimRotation:   0,
			AtmosRefract:   0.5667,
			MagDeclination: -7.583,
		},
		Interval:  60,
		Period:    "nd",
		OutputDir: "./tracker-data",
	}
}

// Validate checks the fatal preconditions of a run. Period codes are
// validated separately when the period is resolved.
func (c *Config) Validate() error {
	if c.Interval < 60 || c.Interval > 3600 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, c.Interval)
	}
	if 86400%c.Interval != 0 {
		return fmt.Errorf("%w: 86400 %% %d != 0", ErrInvalidInterval, c.Interval)
	}
	if c.Location.Timezone < -11 || c.Location.Timezone > 11 {
		return fmt.Errorf("%w: got %g", ErrInvalidTimezone, c.Location.Timezone)
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 ||
		c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("%w: lat %g lon %g", ErrInvalidLocation,
			c.Location.Latitude, c.Location.Longitude)
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	return nil
}
