package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearSet(years ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return set
}

func metric(stationID, region string, year int, completeness float64) StationYearMetric {
	return StationYearMetric{
		StationID:       stationID,
		Region:          strPtr(region),
		Year:            year,
		CompletenessPct: completeness,
	}
}

func TestSummarize_Statistics(t *testing.T) {
	metrics := []StationYearMetric{
		metric("st-1", "MG", 2023, 100),
		metric("st-2", "MG", 2023, 50),
		metric("st-3", "MG", 2023, 75),
	}

	summary := Summarize(metrics, yearSet(2023))
	require.Len(t, summary, 1)

	stats := summary[YearRegion{Year: 2023, Region: "MG"}]
	assert.Equal(t, 75.0, stats.Mean)
	assert.Equal(t, 75.0, stats.Median)
	assert.Equal(t, 3, stats.Count)
	require.NotNil(t, stats.Std)
	assert.Equal(t, 25.0, *stats.Std) // sample std of {50, 75, 100}
}

func TestSummarize_EvenCountMedian(t *testing.T) {
	metrics := []StationYearMetric{
		metric("st-1", "MG", 2023, 10),
		metric("st-2", "MG", 2023, 20),
		metric("st-3", "MG", 2023, 80),
		metric("st-4", "MG", 2023, 90),
	}

	summary := Summarize(metrics, yearSet(2023))
	stats := summary[YearRegion{Year: 2023, Region: "MG"}]
	assert.Equal(t, 50.0, stats.Median)
}

func TestSummarize_SingleRowStdIsNil(t *testing.T) {
	summary := Summarize([]StationYearMetric{metric("st-1", "MG", 2023, 88)}, yearSet(2023))

	stats := summary[YearRegion{Year: 2023, Region: "MG"}]
	assert.Equal(t, 1, stats.Count)
	assert.Nil(t, stats.Std)
}

func TestSummarize_FiltersYears(t *testing.T) {
	metrics := []StationYearMetric{
		metric("st-1", "MG", 2022, 40),
		metric("st-1", "MG", 2023, 60),
	}

	summary := Summarize(metrics, yearSet(2023))
	require.Len(t, summary, 1)
	_, has2022 := summary[YearRegion{Year: 2022, Region: "MG"}]
	assert.False(t, has2022)
}

func TestSummarize_GroupsByRegion(t *testing.T) {
	metrics := []StationYearMetric{
		metric("st-1", "MG", 2023, 40),
		metric("st-2", "SP", 2023, 60),
	}

	summary := Summarize(metrics, yearSet(2023))
	assert.Len(t, summary, 2)
}

func TestSummarize_NilRegionGroupsUnderEmptyString(t *testing.T) {
	m := metric("st-1", "MG", 2023, 40)
	m.Region = nil

	summary := Summarize([]StationYearMetric{m}, yearSet(2023))
	_, ok := summary[YearRegion{Year: 2023, Region: ""}]
	assert.True(t, ok)
}

func TestSummarize_EmptyInput(t *testing.T) {
	assert.Empty(t, Summarize(nil, yearSet(2023)))
	assert.Empty(t, Summarize([]StationYearMetric{metric("st-1", "MG", 2023, 40)}, nil))
}
