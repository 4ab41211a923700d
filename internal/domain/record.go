package domain

import "time"

// MaxDayOfMonth is the number of daily slots in a wide record. The export
// format always carries 31 columns regardless of month length.
const MaxDayOfMonth = 31

// StationRecord is one wide row from the treated ANA export: a single
// station-month with up to 31 daily rainfall readings in millimeters.
// A nil slot means no reading exists for that day.
type StationRecord struct {
	StationID string
	Region    string
	Year      int
	Month     int
	Daily     [MaxDayOfMonth]*float64 // index 0 holds day 1
}

// DailyValue returns the reading for a 1-based day of month, and whether a
// reading is present.
func (r *StationRecord) DailyValue(day int) (float64, bool) {
	if day < 1 || day > MaxDayOfMonth {
		return 0, false
	}
	v := r.Daily[day-1]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// SetDailyValue stores a reading for a 1-based day of month. Out-of-range
// days are ignored.
func (r *StationRecord) SetDailyValue(day int, value float64) {
	if day < 1 || day > MaxDayOfMonth {
		return
	}
	v := value
	r.Daily[day-1] = &v
}

// Station identifies a monitoring point within its stratification region.
type Station struct {
	Region    string `json:"region"`
	StationID string `json:"station_id"`
}

// Observation is one valid daily reading after long-format expansion.
// Date is always midnight UTC of the observed calendar day.
type Observation struct {
	StationID string    `json:"station_id"`
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
}

// Diagnostics reports the non-fatal row drops absorbed during normalization.
type Diagnostics struct {
	DuplicateMonthCount int `json:"duplicate_month_count"`
	DuplicateDayCount   int `json:"duplicate_day_count"`
}

// StationYearMetric is one row of the per station-year output table.
// Region is nil when the station is absent from the region lookup.
type StationYearMetric struct {
	StationID       string  `json:"station_id"`
	Region          *string `json:"region"`
	Year            int     `json:"year"`
	DaysWithData    int     `json:"days_with_data"`
	CompletenessPct float64 `json:"completeness_pct"`
	GapMax          int     `json:"gap_max"`
	GapMean         float64 `json:"gap_mean"`
	GapMin          int     `json:"gap_min"`
}

// StabilityResult is the aggregate outcome of one seeded resampling run.
type StabilityResult struct {
	Seed                int64   `json:"seed"`
	MeanCompletenessPct float64 `json:"mean_completeness_pct"`
}

// RegionOverview is one row of the station-population overview table.
type RegionOverview struct {
	Region       string  `json:"region"`
	StationCount int     `json:"station_count"`
	StationPct   float64 `json:"station_pct"`
}
