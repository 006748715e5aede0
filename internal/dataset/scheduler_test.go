package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fm4dd/suncalc/pkg/config"
	"github.com/fm4dd/suncalc/pkg/spa"
)

// pureOracle is a deterministic stand-in for the position algorithm:
// the output depends only on the request fields.
func pureOracle(req *spa.Request) (spa.Result, error) {
	frac := float64(req.Hour) + float64(req.Minute)/60
	return spa.Result{
		Azimuth:    15.0 * frac,
		Zenith:     90 - float64(req.Day) - frac/24,
		Sunrise:    6.25, // 06:15:00
		Suntransit: 12.0, // 12:00:00
		Sunset:     18.5, // 18:30:00
	}, nil
}

func testConfig(dir string, interval int, period string) config.Config {
	cfg := config.Default()
	cfg.OutputDir = dir
	cfg.Interval = interval
	cfg.Period = period
	return cfg
}

func runGenerator(t *testing.T, cfg config.Config, oracle SunOracle, now time.Time) *RunStats {
	t.Helper()
	stats, err := NewGenerator(cfg, oracle).Run(now)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return stats
}

func TestGeneratorSingleDay(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 3600, "td")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, zone)

	stats := runGenerator(t, cfg, OracleFunc(pureOracle), now)

	if stats.Days != 1 {
		t.Errorf("days = %d, expected 1", stats.Days)
	}
	if stats.Samples != 24 {
		t.Errorf("samples = %d, expected 24", stats.Samples)
	}

	// Daily binary size: (86400/interval) x 19 bytes
	bin, err := os.ReadFile(filepath.Join(dir, "20240315.bin"))
	if err != nil {
		t.Fatalf("reading daily bin file: %v", err)
	}
	if len(bin) != 24*SampleRecordSize {
		t.Errorf("bin size = %d, expected %d", len(bin), 24*SampleRecordSize)
	}

	csv, err := os.ReadFile(filepath.Join(dir, "20240315.csv"))
	if err != nil {
		t.Fatalf("reading daily csv file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(csv), "\n"), "\n")
	if len(lines) != 24 {
		t.Errorf("csv lines = %d, expected 24", len(lines))
	}

	// Yearly summary: one day-record in both forms
	srsBin, err := os.ReadFile(filepath.Join(dir, "srs-2024.bin"))
	if err != nil {
		t.Fatalf("reading srs bin file: %v", err)
	}
	if len(srsBin) != DayRecordSize {
		t.Errorf("srs bin size = %d, expected %d", len(srsBin), DayRecordSize)
	}
	srsCSV, err := os.ReadFile(filepath.Join(dir, "srs-2024.csv"))
	if err != nil {
		t.Fatalf("reading srs csv file: %v", err)
	}
	if !strings.HasPrefix(string(srsCSV), "2024-03-15,06:15,") {
		t.Errorf("srs csv = %q, expected 2024-03-15 sunrise 06:15 prefix", srsCSV)
	}
}

func TestGeneratorDaylightClassification(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 3600, "td")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, zone)

	runGenerator(t, cfg, OracleFunc(pureOracle), now)

	bin, err := os.ReadFile(filepath.Join(dir, "20240315.bin"))
	if err != nil {
		t.Fatalf("reading daily bin file: %v", err)
	}

	// Sunrise 06:15, sunset 18:30: hourly ticks 07..18 fall inside the
	// inclusive window, 00..06 and 19..23 outside
	for i := 0; i < 24; i++ {
		rec, err := DecodeSampleRecord(bin[i*SampleRecordSize : (i+1)*SampleRecordSize])
		if err != nil {
			t.Fatalf("decoding record %d: %v", i, err)
		}
		wantDaylight := i >= 7 && i <= 18
		if rec.Daylight != wantDaylight {
			t.Errorf("hour %02d daylight = %v, expected %v", i, rec.Daylight, wantDaylight)
		}
	}
}

func TestGeneratorBinaryMatchesCSV(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 600, "td")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, zone)

	runGenerator(t, cfg, OracleFunc(pureOracle), now)

	bin, err := os.ReadFile(filepath.Join(dir, "20240315.bin"))
	if err != nil {
		t.Fatalf("reading daily bin file: %v", err)
	}
	csvFile, err := os.Open(filepath.Join(dir, "20240315.csv"))
	if err != nil {
		t.Fatalf("opening daily csv file: %v", err)
	}
	defer csvFile.Close()

	rows := 86400 / cfg.Interval
	if len(bin) != rows*SampleRecordSize {
		t.Fatalf("bin size = %d, expected %d", len(bin), rows*SampleRecordSize)
	}

	// Re-encoding every decoded binary record must reproduce the CSV
	// file field-for-field
	scanner := bufio.NewScanner(csvFile)
	for i := 0; i < rows; i++ {
		if !scanner.Scan() {
			t.Fatalf("csv file ended at record %d of %d", i, rows)
		}
		rec, err := DecodeSampleRecord(bin[i*SampleRecordSize : (i+1)*SampleRecordSize])
		if err != nil {
			t.Fatalf("decoding record %d: %v", i, err)
		}
		if got := strings.TrimRight(rec.EncodeCSV(), "\n"); got != scanner.Text() {
			t.Errorf("record %d: re-encoded %q, csv file has %q", i, got, scanner.Text())
		}
	}
	if scanner.Scan() {
		t.Error("csv file has more lines than binary records")
	}
}

func TestGeneratorIdempotence(t *testing.T) {
	cfg1 := testConfig(t.TempDir(), 1800, "td")
	cfg2 := testConfig(t.TempDir(), 1800, "td")
	zone := cfg1.Location.Zone()
	now := time.Date(2024, 3, 15, 6, 0, 0, 0, zone)

	runGenerator(t, cfg1, OracleFunc(pureOracle), now)
	runGenerator(t, cfg2, OracleFunc(pureOracle), now)

	for _, name := range []string{"20240315.bin", "20240315.csv", "srs-2024.bin", "srs-2024.csv"} {
		a, err := os.ReadFile(filepath.Join(cfg1.OutputDir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		b, err := os.ReadFile(filepath.Join(cfg2.OutputDir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s differs between identical runs", name)
		}
	}
}

func TestGeneratorYearlyAppend(t *testing.T) {
	dir := t.TempDir()
	zone := config.Default().Location.Zone()

	// Two runs for different days of the same year share the srs files
	runGenerator(t, testConfig(dir, 3600, "td"), OracleFunc(pureOracle),
		time.Date(2024, 3, 15, 0, 0, 0, 0, zone))
	runGenerator(t, testConfig(dir, 3600, "td"), OracleFunc(pureOracle),
		time.Date(2024, 3, 16, 0, 0, 0, 0, zone))

	srsBin, err := os.ReadFile(filepath.Join(dir, "srs-2024.bin"))
	if err != nil {
		t.Fatalf("reading srs bin file: %v", err)
	}
	if len(srsBin) != 2*DayRecordSize {
		t.Errorf("srs bin size = %d, expected %d (strict append-only growth)",
			len(srsBin), 2*DayRecordSize)
	}

	srsCSV, err := os.ReadFile(filepath.Join(dir, "srs-2024.csv"))
	if err != nil {
		t.Fatalf("reading srs csv file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(srsCSV), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("srs csv lines = %d, expected 2", len(lines))
	}
}

func TestGeneratorMultiDay(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 3600, "tm")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, zone)

	stats := runGenerator(t, cfg, OracleFunc(pureOracle), now)

	if stats.Days != 29 { // leap-year February
		t.Errorf("days = %d, expected 29", stats.Days)
	}
	if stats.Samples != 29*24 {
		t.Errorf("samples = %d, expected %d", stats.Samples, 29*24)
	}

	// Every day of the month got its own pair of files
	for day := 1; day <= 29; day++ {
		stamp := fmt.Sprintf("202402%02d", day)
		info, err := os.Stat(filepath.Join(dir, stamp+".bin"))
		if err != nil {
			t.Fatalf("missing daily bin file %s: %v", stamp, err)
		}
		if info.Size() != int64(24*SampleRecordSize) {
			t.Errorf("%s.bin size = %d, expected %d", stamp, info.Size(), 24*SampleRecordSize)
		}
	}

	srsBin, err := os.ReadFile(filepath.Join(dir, "srs-2024.bin"))
	if err != nil {
		t.Fatalf("reading srs bin file: %v", err)
	}
	if len(srsBin) != 29*DayRecordSize {
		t.Errorf("srs bin size = %d, expected %d", len(srsBin), 29*DayRecordSize)
	}
}

func TestGeneratorOracleErrorNonFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 3600, "td")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, zone)

	// Oracle rejects the noon sample with error code 4 (hour). The run
	// must continue and still write every record.
	oracle := OracleFunc(func(req *spa.Request) (spa.Result, error) {
		if req.Hour == 12 {
			return spa.Result{}, &spa.ValidationError{
				Code: spa.ErrCodeHour, Field: "hour", Value: float64(req.Hour),
			}
		}
		return pureOracle(req)
	})

	stats := runGenerator(t, cfg, oracle, now)

	if stats.Samples != 24 {
		t.Errorf("samples = %d, expected 24 despite oracle error", stats.Samples)
	}
	bin, err := os.ReadFile(filepath.Join(dir, "20240315.bin"))
	if err != nil {
		t.Fatalf("reading daily bin file: %v", err)
	}
	if len(bin) != 24*SampleRecordSize {
		t.Errorf("bin size = %d, expected %d", len(bin), 24*SampleRecordSize)
	}

	// The rejected sample carries the oracle's (zero) partial result
	rec, err := DecodeSampleRecord(bin[12*SampleRecordSize : 13*SampleRecordSize])
	if err != nil {
		t.Fatalf("decoding noon record: %v", err)
	}
	if rec.Hour != 12 || rec.Azimuth != 0 || rec.Zenith != 0 {
		t.Errorf("noon record = %+v, expected zero angles", rec)
	}
}

func TestGeneratorDescriptor(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 600, "td")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, zone)

	runGenerator(t, cfg, OracleFunc(pureOracle), now)

	data, err := os.ReadFile(filepath.Join(dir, DescriptorFile))
	if err != nil {
		t.Fatalf("reading descriptor: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"prgversion: ",
		"prgrundate: Fri 2024-03-15",
		"start-date: 20240315",
		"locationlg: 139.628999",
		"locationla: 35.610381",
		"locationtz: 9.000000",
		"mag-declin: -7.583000",
		"dayfiles-#: 1",
		"daybinsize: 19 Bytes",
		"srsbinsize: 14 Bytes",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("descriptor missing %q:\n%s", want, content)
		}
	}
}

func TestGeneratorInvalidPeriodCreatesNoFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 3600, "zz")
	zone := cfg.Location.Zone()

	_, err := NewGenerator(cfg, OracleFunc(pureOracle)).Run(time.Date(2024, 3, 15, 0, 0, 0, 0, zone))
	if err == nil {
		t.Fatal("expected error for invalid period")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, expected none before validation", len(entries))
	}
}

type recordedDay struct {
	date    time.Time
	samples int
	rise    time.Time
	set     time.Time
}

type fakeRecorder struct {
	days []recordedDay
}

func (f *fakeRecorder) RecordDay(date time.Time, samples int, rise, set time.Time) error {
	f.days = append(f.days, recordedDay{date, samples, rise, set})
	return nil
}

func TestGeneratorDayRecorder(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, 3600, "td")
	zone := cfg.Location.Zone()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, zone)

	rec := &fakeRecorder{}
	_, err := NewGenerator(cfg, OracleFunc(pureOracle)).WithRecorder(rec).Run(now)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(rec.days) != 1 {
		t.Fatalf("recorded days = %d, expected 1", len(rec.days))
	}
	if rec.days[0].samples != 24 {
		t.Errorf("recorded samples = %d, expected 24", rec.days[0].samples)
	}
	if got := rec.days[0].date.Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("recorded date = %s, expected 2024-03-15", got)
	}
}
