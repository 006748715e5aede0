package dataset

import (
	"fmt"
	"time"

	"github.com/fm4dd/suncalc/internal/log"
	"github.com/fm4dd/suncalc/pkg/config"
)

// DayRecorder receives one notification per generated day. Optional;
// used to maintain the sqlite day catalog.
type DayRecorder interface {
	RecordDay(date time.Time, samples int, rise, set time.Time) error
}

// SampleExporter receives every generated sample. Optional; used for
// the parquet sidecar export.
type SampleExporter interface {
	ExportSample(ts time.Time, daylight bool, azimuth, zenith float64) error
	Close() error
}

// Generator drives the fixed-interval sampling loop over a resolved
// calculation period. It owns the cursor timestamp and the file
// rotator for the duration of a run; everything else is stateless.
type Generator struct {
	cfg     config.Config
	adapter *OracleAdapter
	rotator *FileRotator

	recorder DayRecorder
	exporter SampleExporter
}

func NewGenerator(cfg config.Config, oracle SunOracle) *Generator {
	return &Generator{
		cfg:     cfg,
		adapter: NewOracleAdapter(oracle, cfg.Location),
		rotator: NewFileRotator(cfg.OutputDir),
	}
}

// WithRecorder attaches an optional per-day recorder.
func (g *Generator) WithRecorder(r DayRecorder) *Generator {
	g.recorder = r
	return g
}

// WithExporter attaches an optional per-sample exporter.
func (g *Generator) WithExporter(e SampleExporter) *Generator {
	g.exporter = e
	return g
}

// Run resolves the configured period against now, writes the dataset
// descriptor and generates every sample and day summary in [start,
// end). Oracle validation errors are non-fatal; any I/O error aborts
// the run after closing the open file handles.
func (g *Generator) Run(now time.Time) (*RunStats, error) {
	start, end, err := ResolvePeriod(g.cfg.Period, now)
	if err != nil {
		return nil, err
	}

	days := int(end.Sub(start).Hours() / 24)
	rows := 86400 / g.cfg.Interval
	log.Debugf("dataset range [%s .. %s), %d days, %d rows/day",
		start.Format("2006-01-02 15:04:05"), end.Format("2006-01-02 15:04:05"), days, rows)

	if err := WriteDescriptor(g.cfg.OutputDir, g.cfg.Location, now, start, days); err != nil {
		return nil, err
	}

	defer g.rotator.Close()

	stats := &RunStats{}
	interval := time.Duration(g.cfg.Interval) * time.Second

	// Per-day state, refreshed at each day boundary before the first
	// sample of the day is classified.
	var rise, set time.Time
	var daySamples int

	for cursor := start; cursor.Before(end); cursor = cursor.Add(interval) {
		res := g.adapter.At(cursor)

		// The interval divides a day and start sits on midnight, so
		// the first tick of every day lands exactly on 00:00.
		if cursor.Hour() == 0 && cursor.Minute() == 0 {
			if err := g.finishDay(cursor.AddDate(0, 0, -1), daySamples, rise, set); err != nil {
				return stats, err
			}
			daySamples = 0

			events := g.adapter.DayEvents(cursor, res)
			rise, set = events.Rise, events.Set
			log.Debugf("day %s sunrise %s transit %s sunset %s",
				cursor.Format("2006-01-02"), events.Rise.Format("15:04:05"),
				events.Transit.Format("15:04:05"), events.Set.Format("15:04:05"))

			if err := g.rotator.StartDay(cursor); err != nil {
				return stats, err
			}
			if err := g.rotator.WriteDaySummary(events.EncodeCSV(), events.EncodeBinary()); err != nil {
				return stats, err
			}
			stats.addDay(events)
		}

		daylight := !cursor.Before(rise) && !cursor.After(set)
		rec := SampleRecord{
			Hour:     uint8(cursor.Hour()),
			Minute:   uint8(cursor.Minute()),
			Daylight: daylight,
			Azimuth:  res.Azimuth,
			Zenith:   res.Zenith,
		}

		if err := g.rotator.WriteSample(rec.EncodeCSV(), rec.EncodeBinary()); err != nil {
			return stats, err
		}
		if g.exporter != nil {
			if err := g.exporter.ExportSample(cursor, daylight, res.Azimuth, res.Zenith); err != nil {
				return stats, fmt.Errorf("exporting sample: %w", err)
			}
		}

		daySamples++
		stats.addSample(daylight)
	}

	if err := g.finishDay(end.AddDate(0, 0, -1), daySamples, rise, set); err != nil {
		return stats, err
	}
	if g.exporter != nil {
		if err := g.exporter.Close(); err != nil {
			return stats, fmt.Errorf("closing sample export: %w", err)
		}
	}

	return stats, nil
}

// finishDay reports a completed day to the optional recorder. The
// first boundary of a run carries no completed day yet.
func (g *Generator) finishDay(date time.Time, samples int, rise, set time.Time) error {
	if g.recorder == nil || samples == 0 {
		return nil
	}
	if err := g.recorder.RecordDay(date, samples, rise, set); err != nil {
		return fmt.Errorf("recording day %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}
