package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RunStats accumulates counters over one generator run.
type RunStats struct {
	Days            int
	Samples         int
	DaylightSamples int

	transitElevations []float64
}

func (s *RunStats) addDay(e DayEvents) {
	s.Days++
	s.transitElevations = append(s.transitElevations, float64(e.TransitElevation))
}

func (s *RunStats) addSample(daylight bool) {
	s.Samples++
	if daylight {
		s.DaylightSamples++
	}
}

// Summary condenses the run counters for the end-of-run log line.
type Summary struct {
	Days             int
	Samples          int
	DaylightFraction float64

	MinTransitElevation  float64
	MaxTransitElevation  float64
	MeanTransitElevation float64
}

// Summary computes the dataset summary statistics.
func (s *RunStats) Summary() Summary {
	sum := Summary{Days: s.Days, Samples: s.Samples}
	if s.Samples > 0 {
		sum.DaylightFraction = float64(s.DaylightSamples) / float64(s.Samples)
	}
	if len(s.transitElevations) > 0 {
		sum.MinTransitElevation = floats.Min(s.transitElevations)
		sum.MaxTransitElevation = floats.Max(s.transitElevations)
		sum.MeanTransitElevation = stat.Mean(s.transitElevations, nil)
	}
	return sum
}
