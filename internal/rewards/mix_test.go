package rewards

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMixSumsToOne(t *testing.T) {
	mix, total := NormalizeMix(map[string]float64{
		"Groceries":      900,
		"Food and Drink": 600,
		"Other":          1200,
	})
	require.NotEmpty(t, mix)
	assert.InDelta(t, 2700, total, 1e-9)

	var sum float64
	for _, share := range mix {
		sum += share
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 1.0/3.0, mix["Groceries"], 1e-9)
}

func TestNormalizeMixFiltersBadValues(t *testing.T) {
	mix, total := NormalizeMix(map[string]float64{
		"Groceries": 100,
		"Refunds":   -40,
		"Zero":      0,
		"NaN":       math.NaN(),
	})
	assert.InDelta(t, 100, total, 1e-9)
	require.Len(t, mix, 1)
	assert.InDelta(t, 1.0, mix["Groceries"], 1e-9)
}

func TestNormalizeMixEmptyAfterFilter(t *testing.T) {
	mix, total := NormalizeMix(map[string]float64{"A": -1, "B": 0})
	assert.Empty(t, mix)
	assert.Zero(t, total)
}

func TestMixFromSummary(t *testing.T) {
	summary := Summary{
		Total: 400,
		Categories: []CategoryRow{
			{Key: "Dining", Amount: 300},
			{Key: "Other", Amount: 100},
			{Key: "Empty", Amount: 0},
		},
	}
	mix := MixFromSummary(summary)
	require.Len(t, mix, 2)
	assert.InDelta(t, 0.75, mix["Dining"], 1e-9)
	assert.InDelta(t, 0.25, mix["Other"], 1e-9)
}

func TestProjectMonthlyFromWindow(t *testing.T) {
	got := ProjectMonthly(2700, 90, Mix{"Groceries": 1}, 0)
	assert.InDelta(t, 900, got, 1e-9)
}

func TestProjectMonthlyFallback(t *testing.T) {
	mix := Mix{"Groceries": 1}
	assert.InDelta(t, DefaultFallbackMonthlySpend, ProjectMonthly(0, 90, mix, 0), 1e-9)
	assert.InDelta(t, 750, ProjectMonthly(0, 90, mix, 750), 1e-9)
	assert.Zero(t, ProjectMonthly(0, 90, Mix{}, 0))
}
