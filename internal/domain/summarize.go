package domain

import (
	"math"
	"sort"
)

// YearRegion keys a summary group. Region is the empty string for metrics
// whose station had no region mapping.
type YearRegion struct {
	Year   int
	Region string
}

// SummaryStats are descriptive statistics of completeness over one
// (year, region) group, rounded to 2 decimal places. Std is the sample
// standard deviation (N-1 denominator) and is nil when Count is 1.
type SummaryStats struct {
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Std    *float64 `json:"std"`
	Count  int      `json:"count"`
}

// Summarize groups metrics by (year, region) and computes descriptive
// statistics of completeness_pct, restricted to the given years. Empty input
// yields an empty map.
func Summarize(metrics []StationYearMetric, years map[int]struct{}) map[YearRegion]SummaryStats {
	groups := make(map[YearRegion][]float64)
	for i := range metrics {
		m := &metrics[i]
		if _, ok := years[m.Year]; !ok {
			continue
		}
		region := ""
		if m.Region != nil {
			region = *m.Region
		}
		key := YearRegion{Year: m.Year, Region: region}
		groups[key] = append(groups[key], m.CompletenessPct)
	}

	summaries := make(map[YearRegion]SummaryStats, len(groups))
	for key, values := range groups {
		summaries[key] = summarizeValues(values)
	}
	return summaries
}

func summarizeValues(values []float64) SummaryStats {
	n := len(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	stats := SummaryStats{
		Mean:   round2(mean),
		Median: round2(median(values)),
		Count:  n,
	}
	if n > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - mean) * (v - mean)
		}
		std := round2(math.Sqrt(sq / float64(n-1)))
		stats.Std = &std
	}
	return stats
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
