package rewards

import (
	"sort"
	"strings"
)

var categoryAliases = map[string]string{
	"dining":           "Food and Drink",
	"food":             "Food and Drink",
	"food and drink":   "Food and Drink",
	"grocery":          "Groceries",
	"groceries":        "Groceries",
	"pharmacy":         "Drugstores",
	"drugstore":        "Drugstores",
	"drugstores":       "Drugstores",
	"travel":           "Travel",
	"bills":            "Bills",
	"shopping":         "Shopping",
	"entertainment":    "Entertainment",
	"transit":          "Transportation",
	"transport":        "Transportation",
	"transportation":   "Transportation",
	"home improvement": "Home Improvement",
}

// CanonicalCategory folds common category spellings into one display name.
// Unknown names pass through unchanged.
func CanonicalCategory(name string) string {
	key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "&", "and")))
	if canonical, ok := categoryAliases[key]; ok {
		return canonical
	}
	return name
}

// CategoryIncrease is a category whose spend grew between two windows.
type CategoryIncrease struct {
	Name     string  `json:"name"`
	Increase float64 `json:"increase"`
	Current  float64 `json:"current"`
}

// MerchantIncrease is a merchant whose spend grew between two windows.
type MerchantIncrease struct {
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

// TopCategoryIncreases compares two window breakdowns and returns the
// categories that grew, largest increase first.
func TopCategoryIncreases(current, prior []CategoryRow) []CategoryIncrease {
	priorByKey := make(map[string]float64, len(prior))
	for _, row := range prior {
		priorByKey[row.Key] += row.Amount
	}
	out := make([]CategoryIncrease, 0)
	for _, row := range current {
		change := row.Amount - priorByKey[row.Key]
		if change > 0 {
			out = append(out, CategoryIncrease{
				Name:     row.Key,
				Increase: round2(change),
				Current:  round2(row.Amount),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Increase > out[j].Increase })
	return out
}

// TopMerchantIncreases compares two window breakdowns and returns the
// merchants that grew, largest change first.
func TopMerchantIncreases(current, prior []MerchantRow) []MerchantIncrease {
	priorByName := make(map[string]float64, len(prior))
	for _, row := range prior {
		priorByName[row.Name] += row.Amount
	}
	out := make([]MerchantIncrease, 0)
	for _, row := range current {
		change := row.Amount - priorByName[row.Name]
		if change > 0 {
			out = append(out, MerchantIncrease{Name: row.Name, Change: round2(change)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Change > out[j].Change })
	return out
}

// CategoryTotal sums a summary's merchant rows whose canonical category
// matches name.
func CategoryTotal(summary Summary, name string) float64 {
	canonical := CanonicalCategory(name)
	var total float64
	for _, m := range summary.Merchants {
		if CanonicalCategory(m.Category) == canonical {
			total += m.Amount
		}
	}
	return round2(total)
}

// CategoryMerchants returns a summary's merchant rows in the named category,
// largest spend first, truncated to limit.
func CategoryMerchants(summary Summary, name string, limit int) []MerchantRow {
	canonical := CanonicalCategory(name)
	rows := make([]MerchantRow, 0)
	for _, m := range summary.Merchants {
		if CanonicalCategory(m.Category) == canonical {
			rows = append(rows, m)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Amount > rows[j].Amount })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
