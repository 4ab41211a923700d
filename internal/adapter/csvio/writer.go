package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/rain-gauge-metrics/internal/domain"
)

// WriteMetrics writes the per station-year metric table (output table A).
// Column order follows the treated-export convention; gap_min stays in the
// JSON API but is omitted from the CSV download.
func WriteMetrics(w io.Writer, metrics []domain.StationYearMetric) error {
	cw := csv.NewWriter(w)

	header := []string{"station_id", "region", "year", "completeness_pct", "gap_max", "gap_mean", "days_with_data"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write metrics header: %w", err)
	}

	for i := range metrics {
		m := &metrics[i]
		region := ""
		if m.Region != nil {
			region = *m.Region
		}
		row := []string{
			m.StationID,
			region,
			strconv.Itoa(m.Year),
			formatFloat2(m.CompletenessPct),
			strconv.Itoa(m.GapMax),
			formatFloat2(m.GapMean),
			strconv.Itoa(m.DaysWithData),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write metrics row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteStability writes the per-seed stability table (output table B).
func WriteStability(w io.Writer, results []domain.StabilityResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"seed", "mean_completeness_pct"}); err != nil {
		return fmt.Errorf("write stability header: %w", err)
	}
	for _, r := range results {
		row := []string{
			strconv.FormatInt(r.Seed, 10),
			strconv.FormatFloat(r.MeanCompletenessPct, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write stability row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDataset writes station records back out in the canonical wide format,
// all 31 day columns present. Used by the mock data generator.
func WriteDataset(w io.Writer, records []domain.StationRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"station_id", "region", "year", "month"}
	for day := 1; day <= domain.MaxDayOfMonth; day++ {
		header = append(header, fmt.Sprintf("day_%02d", day))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}

	for i := range records {
		rec := &records[i]
		row := []string{rec.StationID, rec.Region, strconv.Itoa(rec.Year), strconv.Itoa(rec.Month)}
		for day := 1; day <= domain.MaxDayOfMonth; day++ {
			if v, ok := rec.DailyValue(day); ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write dataset row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
