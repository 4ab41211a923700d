package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaysInYear(t *testing.T) {
	tests := []struct {
		year     int
		expected int
	}{
		{2000, 366}, // divisible by 400
		{1900, 365}, // century, not divisible by 400
		{2024, 366},
		{2023, 365},
		{2021, 365},
		{2100, 365},
		{1996, 366},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DaysInYear(tt.year), "year %d", tt.year)
	}
}
