package domain

import (
	"math"
	"time"
)

// Aggregate computes one StationYearMetric per (station, year) group of the
// observation sequence. Observations must already be deduplicated and sorted
// by (station_id, date) ascending, as produced by Normalize.
//
// Gaps are day differences between consecutive observations within a group;
// the first observation of a group contributes none, and a group of size one
// reports zero for all gap statistics. Gap mean and completeness are rounded
// to 2 decimal places. Stations missing from regions get a nil Region.
func Aggregate(observations []Observation, regions map[string]string) ([]StationYearMetric, error) {
	for i := range observations {
		if observations[i].StationID == "" {
			return nil, &SchemaError{Missing: []string{"station_id"}}
		}
		if observations[i].Date.IsZero() {
			return nil, &SchemaError{Missing: []string{"calendar_date"}}
		}
	}

	var metrics []StationYearMetric
	start := 0
	for i := 1; i <= len(observations); i++ {
		if i < len(observations) && sameGroup(observations[i], observations[start]) {
			continue
		}
		metrics = append(metrics, metricForGroup(observations[start:i], regions))
		start = i
	}
	return metrics, nil
}

func sameGroup(a, b Observation) bool {
	return a.StationID == b.StationID && a.Date.Year() == b.Date.Year()
}

func metricForGroup(group []Observation, regions map[string]string) StationYearMetric {
	year := group[0].Date.Year()

	var gapMax, gapMin, gapSum int
	for i := 1; i < len(group); i++ {
		gap := daysBetween(group[i-1].Date, group[i].Date)
		if i == 1 || gap > gapMax {
			gapMax = gap
		}
		if i == 1 || gap < gapMin {
			gapMin = gap
		}
		gapSum += gap
	}

	gapMean := 0.0
	if n := len(group) - 1; n > 0 {
		gapMean = round2(float64(gapSum) / float64(n))
	}

	m := StationYearMetric{
		StationID:       group[0].StationID,
		Year:            year,
		DaysWithData:    len(group),
		CompletenessPct: round2(float64(len(group)) / float64(DaysInYear(year)) * 100),
		GapMax:          gapMax,
		GapMean:         gapMean,
		GapMin:          gapMin,
	}
	if region, ok := regions[m.StationID]; ok {
		m.Region = &region
	}
	return m
}

// daysBetween counts calendar days from a to b. Both are midnight UTC, so the
// division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
