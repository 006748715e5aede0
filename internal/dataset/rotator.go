package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fm4dd/suncalc/internal/log"
)

// FileRotator owns the four dataset file handles and rotates them as
// the scheduler crosses day and year boundaries. Daily files are
// always created fresh; yearly summary files are appended to when they
// already exist so multi-run and multi-year spans accumulate. Writes
// go straight to the unbuffered file handles, so every record is on
// disk once the write returns.
type FileRotator struct {
	dir string

	dayCSV  *os.File
	dayBin  *os.File
	yearCSV *os.File
	yearBin *os.File
	year    int
}

func NewFileRotator(dir string) *FileRotator {
	return &FileRotator{dir: dir}
}

// StartDay rotates the file handles for a new calendar day: the
// previous day's files are closed, the yearly summary files for the
// day's year are opened or appended, and fresh daily files are
// created.
func (r *FileRotator) StartDay(day time.Time) error {
	r.CloseDaily()

	if err := r.ensureYearly(day.Year()); err != nil {
		return err
	}

	stamp := day.Format("20060102")

	csvPath := filepath.Join(r.dir, stamp+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating daily csv file: %w", err)
	}
	r.dayCSV = f
	log.Debugf("created day csv file [%s]", csvPath)

	binPath := filepath.Join(r.dir, stamp+".bin")
	f, err = os.Create(binPath)
	if err != nil {
		return fmt.Errorf("creating daily bin file: %w", err)
	}
	r.dayBin = f
	log.Debugf("created day bin file [%s]", binPath)

	return nil
}

// ensureYearly opens the srs-YYYY summary files, creating them on
// first contact and appending otherwise. Already-open handles for the
// same year are kept.
func (r *FileRotator) ensureYearly(year int) error {
	if r.year == year && r.yearCSV != nil && r.yearBin != nil {
		return nil
	}
	r.closeYearly()

	var err error
	if r.yearCSV, err = openOrAppend(filepath.Join(r.dir, fmt.Sprintf("srs-%04d.csv", year))); err != nil {
		return err
	}
	if r.yearBin, err = openOrAppend(filepath.Join(r.dir, fmt.Sprintf("srs-%04d.bin", year))); err != nil {
		return err
	}
	r.year = year
	return nil
}

func openOrAppend(path string) (*os.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening %s for append: %w", path, err)
		}
		log.Debugf("appending to srs file [%s]", path)
		return f, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	log.Debugf("created srs file [%s]", path)
	return f, nil
}

// WriteSample appends one sample to the current day's CSV and binary
// files.
func (r *FileRotator) WriteSample(csvLine string, bin []byte) error {
	if _, err := r.dayCSV.WriteString(csvLine); err != nil {
		return fmt.Errorf("writing daily csv record: %w", err)
	}
	if _, err := r.dayBin.Write(bin); err != nil {
		return fmt.Errorf("writing daily bin record: %w", err)
	}
	return nil
}

// WriteDaySummary appends one day-summary record to the yearly CSV and
// binary files.
func (r *FileRotator) WriteDaySummary(csvLine string, bin []byte) error {
	if _, err := r.yearCSV.WriteString(csvLine); err != nil {
		return fmt.Errorf("writing srs csv record: %w", err)
	}
	if _, err := r.yearBin.Write(bin); err != nil {
		return fmt.Errorf("writing srs bin record: %w", err)
	}
	return nil
}

// CloseDaily closes the current day's files. It is a no-op when none
// are open.
func (r *FileRotator) CloseDaily() {
	if r.dayCSV != nil {
		r.dayCSV.Close()
		r.dayCSV = nil
	}
	if r.dayBin != nil {
		r.dayBin.Close()
		r.dayBin = nil
	}
}

func (r *FileRotator) closeYearly() {
	if r.yearCSV != nil {
		r.yearCSV.Close()
		r.yearCSV = nil
	}
	if r.yearBin != nil {
		r.yearBin.Close()
		r.yearBin = nil
	}
}

// Close releases every open file handle. Safe to call on any exit
// path, including after a write failure.
func (r *FileRotator) Close() {
	r.CloseDaily()
	r.closeYearly()
}
