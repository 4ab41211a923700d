package domain

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stabilityDataset builds two regions of stations, each with one month of
// complete daily data, so every sampled station-year has the same completeness.
func stabilityDataset() []StationRecord {
	var records []StationRecord
	for _, region := range []string{"MG", "SP"} {
		for i := 1; i <= 10; i++ {
			id := fmt.Sprintf("%s-%03d", region, i)
			records = append(records, monthRecord(id, region, 2023, 1,
				1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
				11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
				21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31))
		}
	}
	return records
}

func TestEvaluateStability_CanonicalSeeds(t *testing.T) {
	records := stabilityDataset()

	results, err := EvaluateStability(records, 0.5, CanonicalSeeds)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, seed := range CanonicalSeeds {
		assert.Equal(t, seed, results[i].Seed, "result %d out of seed order", i)
	}

	// Every station carries an identical January, so each run's mean is
	// 31/365*100 regardless of which stations were drawn.
	expected := float64(31) / 365 * 100
	for _, r := range results {
		assert.InDelta(t, expected, r.MeanCompletenessPct, 1e-9)
	}
}

func TestEvaluateStability_Deterministic(t *testing.T) {
	records := stabilityDataset()

	first, err := EvaluateStability(records, 0.3, []int64{42, 7})
	require.NoError(t, err)
	second, err := EvaluateStability(records, 0.3, []int64{42, 7})
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated invocation mismatch (-first +second):\n%s", diff)
	}
}

func TestEvaluateStability_EmptySeeds(t *testing.T) {
	_, err := EvaluateStability(stabilityDataset(), 0.5, nil)

	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "seeds", ipe.Param)
}

func TestEvaluateStability_InvalidFraction(t *testing.T) {
	_, err := EvaluateStability(stabilityDataset(), 0, CanonicalSeeds)

	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "fraction", ipe.Param)
}

func TestMeanCompleteness(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, meanCompleteness(nil))
	})

	t.Run("unweighted across station-years", func(t *testing.T) {
		// st-1 2023: 2 days; st-2 2023: 4 days.
		obs := []Observation{
			{StationID: "st-1", Date: day(2023, 1, 1)},
			{StationID: "st-1", Date: day(2023, 1, 2)},
			{StationID: "st-2", Date: day(2023, 1, 1)},
			{StationID: "st-2", Date: day(2023, 1, 2)},
			{StationID: "st-2", Date: day(2023, 1, 3)},
			{StationID: "st-2", Date: day(2023, 1, 4)},
		}
		expected := (float64(2)/365*100 + float64(4)/365*100) / 2
		assert.InDelta(t, expected, meanCompleteness(obs), 1e-9)
	})
}

func TestAmplitude(t *testing.T) {
	t.Run("spread", func(t *testing.T) {
		results := []StabilityResult{
			{Seed: 42, MeanCompletenessPct: 80.5},
			{Seed: 1, MeanCompletenessPct: 79.2},
			{Seed: 100, MeanCompletenessPct: 81.0},
		}
		assert.InDelta(t, 1.8, Amplitude(results), 1e-9)
	})

	t.Run("fewer than two results", func(t *testing.T) {
		assert.Equal(t, 0.0, Amplitude(nil))
		assert.Equal(t, 0.0, Amplitude([]StabilityResult{{Seed: 42, MeanCompletenessPct: 50}}))
	})
}
