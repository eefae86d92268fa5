package rewards

import (
	"fmt"
	"sort"
	"strings"

	"github.com/swipecoach/backend/internal/models"
)

// PurchaseCandidate is one catalog card's fit for a single purchase.
type PurchaseCandidate struct {
	CardID        string   `json:"card_id"`
	Slug          string   `json:"slug"`
	Display       string   `json:"display"`
	EffectiveRate float64  `json:"effective_rate"`
	EstReward     float64  `json:"est_reward_usd"`
	Reasons       []string `json:"reasons"`
}

// CategoryUsage tracks how much capped-category spend a user has already put
// on each card this month, keyed by card slug then category. Missing entries
// mean untouched caps.
type CategoryUsage map[string]map[string]float64

func scorePurchase(card models.CardProduct, merchant, category string, amount float64, used map[string]float64) PurchaseCandidate {
	cand := PurchaseCandidate{
		Slug:    card.Slug,
		Display: strings.TrimSpace(card.Issuer + " " + card.ProductName),
	}
	if !card.ID.IsZero() {
		cand.CardID = card.ID.Hex()
	}

	// Exact merchant override wins outright.
	if merchant != "" {
		for _, mo := range card.MerchantOverrides {
			if strings.EqualFold(mo.Merchant, merchant) {
				cand.EffectiveRate = mo.Rate
				cand.EstReward = round2(amount * mo.Rate)
				cand.Reasons = append(cand.Reasons, fmt.Sprintf("Merchant override %s: %.0f%%", merchant, mo.Rate*100))
				return cand
			}
		}
	}

	baseRate := card.BaseCashback
	if rule := ruleForCategory(card, category); rule != nil && rule.Rate > baseRate {
		var headroom *float64
		if rule.CapMonthly != nil {
			rem := *rule.CapMonthly - used[category]
			if rem < 0 {
				rem = 0
			}
			headroom = &rem
		}

		eff := EffectiveCategoryRate(baseRate, rule.Rate, headroom, amount)
		cand.EffectiveRate = eff
		cand.EstReward = round2(amount * eff)
		cand.Reasons = append(cand.Reasons, fmt.Sprintf("Category %s at %.0f%%", category, rule.Rate*100))
		if headroom != nil && amount > *headroom {
			cand.Reasons = append(cand.Reasons, "Monthly cap reached, overflow earns base rate")
		}
		return cand
	}

	cand.EffectiveRate = baseRate
	cand.EstReward = round2(amount * baseRate)
	if baseRate > 0 {
		cand.Reasons = append(cand.Reasons, fmt.Sprintf("Base rate %.0f%%", baseRate*100))
	}
	return cand
}

// BestCards ranks catalog cards for a single purchase of amount dollars at an
// optional merchant/category, honoring each card's remaining monthly cap
// headroom from usage. Sorted by estimated reward then effective rate,
// descending, stable on ties.
func BestCards(cards []models.CardProduct, usage CategoryUsage, merchant, category string, amount float64) []PurchaseCandidate {
	candidates := make([]PurchaseCandidate, 0, len(cards))
	for _, card := range cards {
		used := usage[card.Slug]
		candidates = append(candidates, scorePurchase(card, merchant, category, amount, used))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].EstReward != candidates[j].EstReward {
			return candidates[i].EstReward > candidates[j].EstReward
		}
		return candidates[i].EffectiveRate > candidates[j].EffectiveRate
	})
	return candidates
}
