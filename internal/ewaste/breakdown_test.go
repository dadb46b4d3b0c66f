package ewaste

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Empty(t *testing.T) {
	entries := Aggregate(map[string]int{}, 0)

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAggregate_Shares(t *testing.T) {
	entries := Aggregate(map[string]int{"mouse": 3, "tv": 7}, 10)

	expected := []BreakdownEntry{
		{Category: "tv", Count: 7, Percentage: 70},
		{Category: "mouse", Count: 3, Percentage: 30},
	}
	assert.Equal(t, expected, entries)
}

func TestAggregate_SumsToHundred(t *testing.T) {
	breakdown := map[string]int{"mouse": 1, "tv": 1, "laptop": 1}
	entries := Aggregate(breakdown, 3)

	var sum float64
	for _, e := range entries {
		sum += e.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestAggregate_ZeroTotal(t *testing.T) {
	entries := Aggregate(map[string]int{"mouse": 4}, 0)

	assert.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].Percentage)
	assert.Equal(t, 4, entries[0].Count)
}

func TestAggregate_TiesOrderedByCategory(t *testing.T) {
	entries := Aggregate(map[string]int{"tv": 2, "battery": 2, "mouse": 5}, 9)

	var order []string
	for _, e := range entries {
		order = append(order, e.Category)
	}
	assert.Equal(t, []string{"mouse", "battery", "tv"}, order)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"circuit_board": "Circuit Board",
		"tv":            "Tv",
		"mouse":         "Mouse",
		"":              "",
	}

	for in, expected := range tests {
		assert.Equal(t, expected, DisplayName(in), in)
	}
}
