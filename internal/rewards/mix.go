package rewards

import "math"

// DaysPerMonth is the normalization constant used to project a spend window
// onto a monthly figure.
const DaysPerMonth = 30.0

// DefaultFallbackMonthlySpend is the assumed monthly total when a caller
// supplies a category mix but no observed window spend to derive one from.
// Callers may override it through configuration.
const DefaultFallbackMonthlySpend = 1000.0

// Mix maps category names to fractions of total spend. A non-empty Mix sums
// to 1 within floating tolerance; an empty Mix means no signal.
type Mix map[string]float64

// NormalizeMix converts a raw category/amount map into a Mix plus the implied
// total. Non-finite and non-positive values are dropped; if nothing survives
// the filter the result is an empty Mix and a zero total.
func NormalizeMix(raw map[string]float64) (Mix, float64) {
	var total float64
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		total += v
	}
	if total <= 0 {
		return Mix{}, 0
	}
	mix := make(Mix, len(raw))
	for k, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		mix[k] = v / total
	}
	return mix, total
}

// MixFromSummary derives a Mix from an aggregated window, ignoring
// zero-amount categories.
func MixFromSummary(summary Summary) Mix {
	if summary.Total <= 0 {
		return Mix{}
	}
	mix := make(Mix, len(summary.Categories))
	for _, row := range summary.Categories {
		if row.Amount > 0 {
			mix[row.Key] = row.Amount / summary.Total
		}
	}
	return mix
}

// ProjectMonthly converts a window's observed spend into a monthly total.
// When the window saw no spend but a mix exists, fallback is used so scoring
// still has a magnitude to work with; fallback <= 0 selects the package
// default.
func ProjectMonthly(windowTotal float64, windowDays int, mix Mix, fallback float64) float64 {
	if windowTotal > 0 && windowDays > 0 {
		return (windowTotal / float64(windowDays)) * DaysPerMonth
	}
	if len(mix) > 0 {
		if fallback > 0 {
			return fallback
		}
		return DefaultFallbackMonthlySpend
	}
	return 0
}
