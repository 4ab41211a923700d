package domain

import "sort"

// UniqueStations extracts the distinct (region, station) population from a
// record set, in first-seen order.
func UniqueStations(records []StationRecord) []Station {
	seen := make(map[Station]struct{}, len(records))
	var stations []Station
	for i := range records {
		s := Station{Region: records[i].Region, StationID: records[i].StationID}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		stations = append(stations, s)
	}
	return stations
}

// RegionsByStation builds the station -> region lookup used to attach regions
// to aggregated metrics. First-seen wins if a station somehow appears under
// two regions.
func RegionsByStation(records []StationRecord) map[string]string {
	regions := make(map[string]string)
	for i := range records {
		if _, ok := regions[records[i].StationID]; ok {
			continue
		}
		regions[records[i].StationID] = records[i].Region
	}
	return regions
}

// Overview reports the unique station count per region and each region's
// share of the full population as a percentage rounded to 2 decimal places.
// Rows are sorted by region ascending.
func Overview(records []StationRecord) []RegionOverview {
	counts := make(map[string]int)
	total := 0
	for _, s := range UniqueStations(records) {
		counts[s.Region]++
		total++
	}

	rows := make([]RegionOverview, 0, len(counts))
	for region, n := range counts {
		rows = append(rows, RegionOverview{
			Region:       region,
			StationCount: n,
			StationPct:   round2(float64(n) / float64(total) * 100),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Region < rows[j].Region })
	return rows
}
