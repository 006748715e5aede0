package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fm4dd/suncalc/internal/constants"
	"github.com/fm4dd/suncalc/pkg/config"
)

// DescriptorFile is the dataset metadata file name.
const DescriptorFile = "dset.txt"

// WriteDescriptor writes the run metadata file, overwriting any prior
// one. The embedded reader checks prgversion and the record sizes
// against its own build before parsing any binary file.
func WriteDescriptor(dir string, loc config.Location, runDate, start time.Time, days int) error {
	path := filepath.Join(dir, DescriptorFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating descriptor file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "prgversion: %s\n", constants.Version)
	fmt.Fprintf(f, "prgrundate: %s\n", runDate.Format("Mon 2006-01-02"))
	fmt.Fprintf(f, "start-date: %s\n", start.Format("20060102"))
	fmt.Fprintf(f, "locationlg: %f\n", loc.Longitude)
	fmt.Fprintf(f, "locationla: %f\n", loc.Latitude)
	fmt.Fprintf(f, "locationtz: %f\n", loc.Timezone)
	fmt.Fprintf(f, "mag-declin: %f\n", loc.MagDeclination)
	fmt.Fprintf(f, "dayfiles-#: %d\n", days)
	fmt.Fprintf(f, "daybinsize: %d Bytes\n", SampleRecordSize)
	fmt.Fprintf(f, "srsbinsize: %d Bytes\n", DayRecordSize)

	return nil
}
