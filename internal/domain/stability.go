package domain

// CanonicalSeeds is the default seed list for stability evaluation. Five
// independent draws are enough to expose an undersized sampling fraction
// without making the check expensive.
var CanonicalSeeds = []int64{42, 1, 100, 2024, 999}

// EvaluateStability reruns the sampling pipeline once per seed and reports
// the population-wide mean completeness of each run, in seed order.
//
// Each run is independent: Sampler, Normalizer, and a reduced aggregation
// (day counts and completeness only, no gap statistics). The only source of
// nondeterminism is the seeded draw, so identical inputs always produce
// identical results.
func EvaluateStability(records []StationRecord, fraction float64, seeds []int64) ([]StabilityResult, error) {
	if len(seeds) == 0 {
		return nil, &InvalidParameterError{Param: "seeds", Reason: "must not be empty"}
	}

	stations := UniqueStations(records)
	results := make([]StabilityResult, 0, len(seeds))
	for _, seed := range seeds {
		sampled, err := SampleStations(stations, fraction, seed)
		if err != nil {
			return nil, err
		}
		observations, _, err := Normalize(records, sampled)
		if err != nil {
			return nil, err
		}
		results = append(results, StabilityResult{
			Seed:                seed,
			MeanCompletenessPct: meanCompleteness(observations),
		})
	}
	return results, nil
}

// meanCompleteness is the reduced aggregation used by stability runs: it only
// needs per station-year day counts, not gap statistics. Completeness values
// are kept at full precision; rounding is a display concern. Returns 0 for an
// empty observation sequence.
func meanCompleteness(observations []Observation) float64 {
	var sum float64
	var groups int

	start := 0
	for i := 1; i <= len(observations); i++ {
		if i < len(observations) && sameGroup(observations[i], observations[start]) {
			continue
		}
		group := observations[start:i]
		year := group[0].Date.Year()
		sum += float64(len(group)) / float64(DaysInYear(year)) * 100
		groups++
		start = i
	}

	if groups == 0 {
		return 0
	}
	return sum / float64(groups)
}

// Amplitude is the spread (max minus min) of mean completeness across
// stability results, in percentage points. Zero for fewer than two results.
func Amplitude(results []StabilityResult) float64 {
	if len(results) < 2 {
		return 0
	}
	minMean, maxMean := results[0].MeanCompletenessPct, results[0].MeanCompletenessPct
	for _, r := range results[1:] {
		if r.MeanCompletenessPct < minMean {
			minMean = r.MeanCompletenessPct
		}
		if r.MeanCompletenessPct > maxMean {
			maxMean = r.MeanCompletenessPct
		}
	}
	return maxMean - minMean
}
