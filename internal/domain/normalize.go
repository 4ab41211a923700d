package domain

import (
	"sort"
	"time"
)

// Normalize converts wide station records into a cleaned, sorted sequence of
// daily observations for the sampled stations.
//
// Records outside the sampled set are skipped. Duplicate (station, year,
// month) rows and duplicate (station, date) observations are dropped
// first-seen-wins; the removed counts come back as Diagnostics. Daily slots
// with no reading, and slots whose (year, month, day) is not a valid
// Gregorian date, are skipped silently. The result is sorted by
// (station_id, date) ascending, the precondition for gap computation in
// Aggregate.
//
// A record with an empty station ID or a zero year is the in-memory
// equivalent of a missing required column and fails with a SchemaError.
func Normalize(records []StationRecord, sampled map[string]struct{}) ([]Observation, Diagnostics, error) {
	var diags Diagnostics

	type monthKey struct {
		stationID   string
		year, month int
	}
	seenMonth := make(map[monthKey]struct{})
	var kept []*StationRecord

	for i := range records {
		rec := &records[i]
		if rec.StationID == "" {
			return nil, Diagnostics{}, &SchemaError{Missing: []string{"station_id"}}
		}
		if rec.Year == 0 {
			return nil, Diagnostics{}, &SchemaError{Missing: []string{"year"}}
		}
		if _, ok := sampled[rec.StationID]; !ok {
			continue
		}

		k := monthKey{rec.StationID, rec.Year, rec.Month}
		if _, dup := seenMonth[k]; dup {
			diags.DuplicateMonthCount++
			continue
		}
		seenMonth[k] = struct{}{}
		kept = append(kept, rec)
	}

	var candidates []Observation
	for _, rec := range kept {
		for day := 1; day <= MaxDayOfMonth; day++ {
			value, ok := rec.DailyValue(day)
			if !ok {
				continue
			}
			date, ok := makeDate(rec.Year, rec.Month, day)
			if !ok {
				continue
			}
			candidates = append(candidates, Observation{
				StationID: rec.StationID,
				Date:      date,
				Value:     value,
			})
		}
	}

	observations, removed := dedupeDaily(candidates)
	diags.DuplicateDayCount = removed

	sort.Slice(observations, func(i, j int) bool {
		if observations[i].StationID != observations[j].StationID {
			return observations[i].StationID < observations[j].StationID
		}
		return observations[i].Date.Before(observations[j].Date)
	})

	return observations, diags, nil
}

// dedupeDaily drops observations that repeat a (station, date) pair,
// first-seen-wins, and reports how many were removed. Month-level dedup
// already makes collisions impossible for well-formed exports; this is the
// second shield for upstream files that break the one-row-per-month rule.
func dedupeDaily(candidates []Observation) ([]Observation, int) {
	type dayKey struct {
		stationID string
		date      time.Time
	}
	seen := make(map[dayKey]struct{}, len(candidates))
	kept := make([]Observation, 0, len(candidates))
	removed := 0

	for _, obs := range candidates {
		k := dayKey{obs.StationID, obs.Date}
		if _, dup := seen[k]; dup {
			removed++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, obs)
	}
	return kept, removed
}

// makeDate builds a midnight-UTC date, rejecting combinations that time.Date
// would silently normalize (February 30 becomes March 1 or 2).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > MaxDayOfMonth {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
