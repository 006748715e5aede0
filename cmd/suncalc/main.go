// suncalc generates solar position dataset files for an embedded
// tracker controller: per-day sample files in matched CSV and binary
// form, a yearly sunrise/sunset summary in both forms, and a dataset
// descriptor the tracker validates against its own build.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fm4dd/suncalc/internal/archive"
	"github.com/fm4dd/suncalc/internal/catalog"
	"github.com/fm4dd/suncalc/internal/constants"
	"github.com/fm4dd/suncalc/internal/dataset"
	"github.com/fm4dd/suncalc/internal/export"
	"github.com/fm4dd/suncalc/internal/log"
	"github.com/fm4dd/suncalc/pkg/config"
	"github.com/fm4dd/suncalc/pkg/spa"
)

func main() {
	defaults := config.Default()

	cfgFile := flag.String("config", "", "Path to YAML configuration file (optional)")
	longitude := flag.Float64("x", defaults.Location.Longitude, "Location longitude in degrees, east positive")
	latitude := flag.Float64("y", defaults.Location.Latitude, "Location latitude in degrees, north positive")
	timezone := flag.Float64("t", defaults.Location.Timezone, "Location timezone offset in hours, e.g. +9")
	interval := flag.Int("i", defaults.Interval, "Calculation interval in seconds (60-3600, must divide 86400)")
	period := flag.String("p", defaults.Period, "Calculation period:\n\tnd = next day, nm = next month, ny = next year\n\ttd = this day, tm = this month, ty = this year\n\t2y = two years, tf = ten years forward")
	outdir := flag.String("o", defaults.OutputDir, "Output folder for the dataset files")
	useCatalog := flag.Bool("catalog", false, "Record generated days in <outdir>/catalog.db")
	useParquet := flag.Bool("parquet", false, "Export all samples to <outdir>/samples.parquet")
	useArchive := flag.Bool("archive", false, "Create <outdir>.tar.gz after the run")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("suncalc %s\n", constants.Version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := defaults
	if *cfgFile != "" {
		filename, _ := filepath.Abs(*cfgFile)
		var err error
		cfg, err = config.Load(filename)
		if err != nil {
			log.Errorf("Failed to load configuration: %v", err)
			os.Exit(1)
		}
	}

	// Command-line values override the configuration file, but only
	// for flags the user actually set.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			cfg.Location.Longitude = *longitude
		case "y":
			cfg.Location.Latitude = *latitude
		case "t":
			cfg.Location.Timezone = *timezone
		case "i":
			cfg.Interval = *interval
		case "p":
			cfg.Period = *period
		case "o":
			cfg.OutputDir = *outdir
		case "catalog":
			cfg.Catalog = *useCatalog
		case "parquet":
			cfg.Parquet = *useParquet
		case "archive":
			cfg.Archive = *useArchive
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	if err := prepareOutputDir(cfg.OutputDir); err != nil {
		log.Errorf("Failed to prepare output folder: %v", err)
		os.Exit(1)
	}

	gen := dataset.NewGenerator(cfg, dataset.OracleFunc(spa.Calculate))

	if cfg.Catalog {
		cat, err := catalog.Open(cfg.OutputDir)
		if err != nil {
			log.Errorf("Failed to open day catalog: %v", err)
			os.Exit(1)
		}
		defer cat.Close()
		gen.WithRecorder(cat)
	}
	if cfg.Parquet {
		pw, err := export.NewParquetWriter(filepath.Join(cfg.OutputDir, "samples.parquet"))
		if err != nil {
			log.Errorf("Failed to create parquet export: %v", err)
			os.Exit(1)
		}
		gen.WithExporter(pw)
	}

	now := time.Now().In(cfg.Location.Zone())
	stats, err := gen.Run(now)
	if err != nil {
		log.Errorf("Dataset generation failed: %v", err)
		os.Exit(1)
	}

	sum := stats.Summary()
	log.Infof("generated %d days, %d samples (%.1f%% daylight), transit elevation min/mean/max %.0f/%.1f/%.0f deg",
		sum.Days, sum.Samples, 100*sum.DaylightFraction,
		sum.MinTransitElevation, sum.MeanTransitElevation, sum.MaxTransitElevation)

	if cfg.Archive {
		dest := strings.TrimSuffix(filepath.Clean(cfg.OutputDir), string(filepath.Separator)) + ".tar.gz"
		if err := archive.Create(cfg.OutputDir, dest); err != nil {
			log.Errorf("Failed to archive dataset: %v", err)
			os.Exit(1)
		}
		log.Infof("archived dataset to %s", dest)
	}
}

// prepareOutputDir creates the dataset folder, or clears the previous
// dataset files when the folder is reused.
func prepareOutputDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output folder: %w", err)
		}
		log.Infof("created output folder [%s]", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading output folder: %w", err)
	}

	log.Debugf("found output folder [%s], removing old dataset files", dir)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("removing old dataset file: %w", err)
		}
	}
	return nil
}
