// Package export writes a columnar sidecar copy of the run's samples
// to a Parquet file for analytics pipelines. The tracker MCU never
// reads this file; the authoritative formats are the CSV/binary pair.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// SampleRow is the Parquet schema for one solar position sample.
type SampleRow struct {
	Timestamp int64   `parquet:"timestamp"`
	Daylight  bool    `parquet:"daylight"`
	Azimuth   float64 `parquet:"azimuth"`
	Zenith    float64 `parquet:"zenith"`
}

// ParquetWriter streams samples into a single Parquet file.
type ParquetWriter struct {
	f *os.File
	w *parquet.GenericWriter[SampleRow]
}

// NewParquetWriter creates (or truncates) the target file.
func NewParquetWriter(path string) (*ParquetWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating parquet file: %w", err)
	}
	return &ParquetWriter{
		f: f,
		w: parquet.NewGenericWriter[SampleRow](f),
	}, nil
}

// ExportSample appends one sample row. The timestamp is recorded in
// unix seconds; the site time zone lives in the dataset descriptor.
func (p *ParquetWriter) ExportSample(ts time.Time, daylight bool, azimuth, zenith float64) error {
	_, err := p.w.Write([]SampleRow{{
		Timestamp: ts.Unix(),
		Daylight:  daylight,
		Azimuth:   azimuth,
		Zenith:    zenith,
	}})
	if err != nil {
		return fmt.Errorf("writing parquet row: %w", err)
	}
	return nil
}

// Close flushes the Parquet footer and closes the file.
func (p *ParquetWriter) Close() error {
	if err := p.w.Close(); err != nil {
		p.f.Close()
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return p.f.Close()
}
