// Package rewards is the card reward-scoring and spend-mix engine. It is pure
// computation over in-memory data: callers snapshot transactions and catalog
// records first, and every function allocates fresh outputs, so the package is
// safe to call concurrently.
package rewards

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/swipecoach/backend/internal/models"
)

const (
	// UncategorizedKey is the category bucket for transactions without one.
	UncategorizedKey = "Uncategorized"
	// GeneralCategory is the fallback category for merchant rows.
	GeneralCategory = "General"
)

// CategoryRow is one category's slice of a spend window.
type CategoryRow struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
	Share  float64 `json:"pct"`
}

// MerchantRow is one merchant's accumulated spend in a window.
type MerchantRow struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
	LogoURL  string  `json:"logoUrl"`
}

// Summary is the full breakdown of a transaction window.
type Summary struct {
	Total            float64       `json:"total"`
	TransactionCount int           `json:"transaction_count"`
	Categories       []CategoryRow `json:"categories"`
	Merchants        []MerchantRow `json:"merchants"`
}

// CategoryRule maps merchant names to a category. Compiled from the pattern
// collection: a valid regex matches as such, anything else matches as a
// case-insensitive substring. Rules apply in order, first match wins.
type CategoryRule struct {
	regex    *regexp.Regexp
	substr   string
	Category string
}

// CompileCategoryRules builds the ordered rule list from stored mappings.
// Entries with an empty pattern or category are skipped.
func CompileCategoryRules(mappings []models.MerchantCategoryRule) []CategoryRule {
	rules := make([]CategoryRule, 0, len(mappings))
	for _, m := range mappings {
		if m.Pattern == "" || m.Category == "" {
			continue
		}
		rule := CategoryRule{Category: m.Category}
		if re, err := regexp.Compile("(?i)" + m.Pattern); err == nil {
			rule.regex = re
		} else {
			rule.substr = strings.ToLower(m.Pattern)
		}
		rules = append(rules, rule)
	}
	return rules
}

func (r CategoryRule) matches(name string) bool {
	if r.regex != nil {
		return r.regex.MatchString(name)
	}
	return strings.Contains(strings.ToLower(name), r.substr)
}

func resolveCategory(name, fallback string, rules []CategoryRule) string {
	for _, rule := range rules {
		if rule.matches(name) {
			return rule.Category
		}
	}
	return fallback
}

// merchantDisplayName resolves the display name by fixed precedence: explicit
// merchant identifier, cleaned description, raw description, then a literal.
func merchantDisplayName(txn models.Transaction) string {
	switch {
	case txn.MerchantID != "":
		return txn.MerchantID
	case txn.CleanDesc != "":
		return txn.CleanDesc
	case txn.Description != "":
		return txn.Description
	default:
		return "Merchant"
	}
}

// Aggregate turns a window of transactions into totals plus per-category and
// per-merchant breakdowns. Only positive amounts contribute to spend; refunds
// still count toward TransactionCount. Empty input yields an all-zero Summary.
func Aggregate(txns []models.Transaction, rules []CategoryRule) Summary {
	var total float64
	byCategory := make(map[string]float64)
	counts := make(map[string]int)
	categoryOrder := make([]string, 0)

	for _, txn := range txns {
		amount := txn.Amount
		if amount < 0 {
			amount = 0
		}
		category := txn.Category
		if category == "" {
			category = UncategorizedKey
		}
		if _, seen := byCategory[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		byCategory[category] += amount
		counts[category]++
		total += amount
	}

	categories := make([]CategoryRow, 0, len(byCategory))
	for _, key := range categoryOrder {
		share := 0.0
		if total > 0 {
			share = byCategory[key] / total
		}
		categories = append(categories, CategoryRow{
			Key:    key,
			Amount: round2(byCategory[key]),
			Count:  counts[key],
			Share:  share,
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Amount > categories[j].Amount
	})

	merchantIndex := make(map[string]int)
	merchants := make([]MerchantRow, 0)
	for _, txn := range txns {
		if txn.Amount <= 0 {
			continue
		}
		name := merchantDisplayName(txn)
		idx, seen := merchantIndex[name]
		if !seen {
			category := txn.Category
			if category == "" {
				category = GeneralCategory
			}
			merchants = append(merchants, MerchantRow{Name: name, Category: category})
			idx = len(merchants) - 1
			merchantIndex[name] = idx
		}
		merchants[idx].Count++
		merchants[idx].Amount += txn.Amount
		if merchants[idx].LogoURL == "" && txn.LogoURL != "" {
			merchants[idx].LogoURL = txn.LogoURL
		}
	}
	for i := range merchants {
		merchants[i].Category = resolveCategory(merchants[i].Name, merchants[i].Category, rules)
		merchants[i].Amount = round2(merchants[i].Amount)
	}
	sort.SliceStable(merchants, func(i, j int) bool {
		return merchants[i].Amount > merchants[j].Amount
	})

	return Summary{
		Total:            round2(total),
		TransactionCount: len(txns),
		Categories:       categories,
		Merchants:        merchants,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
