package rewards

import "github.com/swipecoach/backend/internal/models"

// SpendItem is a sanitized positive spend amount in one category, the input
// shape for transaction-level earnings estimation.
type SpendItem struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// Earnings summarizes cashback earned over a set of transactions.
type Earnings struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}

func ruleForCategory(card models.CardProduct, category string) *models.RewardRule {
	for i := range card.Rewards {
		if card.Rewards[i].Category == category {
			return &card.Rewards[i]
		}
	}
	return nil
}

// MonthEarnings replays a month of spend against one card's reward schedule,
// tracking per-category cap usage as it goes. Spend within a category cap
// earns the rule rate; overflow earns the base rate, the same blended
// semantics EffectiveCategoryRate encodes for aggregate reporting.
func MonthEarnings(card models.CardProduct, items []SpendItem) Earnings {
	usage := make(map[string]float64)
	byCategory := make(map[string]float64)
	var total float64

	for _, item := range items {
		if item.Amount <= 0 {
			continue
		}
		category := item.Category
		if category == "" {
			category = UncategorizedKey
		}

		rate := card.BaseCashback
		earned := item.Amount * rate
		if rule := ruleForCategory(card, category); rule != nil {
			rate = rule.Rate
			if rule.CapMonthly != nil {
				remaining := *rule.CapMonthly - usage[category]
				if remaining < 0 {
					remaining = 0
				}
				boosted := item.Amount
				if boosted > remaining {
					boosted = remaining
				}
				usage[category] += boosted
				earned = boosted*rate + (item.Amount-boosted)*card.BaseCashback
			} else {
				earned = item.Amount * rate
			}
		}

		total += earned
		byCategory[category] += earned
	}

	rounded := make(map[string]float64, len(byCategory))
	for k, v := range byCategory {
		rounded[k] = round2(v)
	}
	return Earnings{Total: round2(total), ByCategory: rounded}
}
