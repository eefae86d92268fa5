package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipecoach/backend/internal/models"
)

func TestBestCardsMerchantOverrideWins(t *testing.T) {
	card := models.CardProduct{
		Slug:              "store-card",
		Issuer:            "First Bank",
		ProductName:       "Store Card",
		BaseCashback:      0.01,
		MerchantOverrides: []models.MerchantOverride{{Merchant: "H-E-B", Rate: 0.05}},
	}
	ranked := BestCards([]models.CardProduct{card}, nil, "h-e-b", "Groceries", 100)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.05, ranked[0].EffectiveRate, 1e-9)
	assert.InDelta(t, 5.00, ranked[0].EstReward, 1e-9)
	assert.Contains(t, ranked[0].Reasons[0], "Merchant override")
}

func TestBestCardsCapHeadroomBlendsRate(t *testing.T) {
	card := models.CardProduct{
		Slug:         "grocery-card",
		BaseCashback: 0.01,
		Rewards:      []models.RewardRule{{Category: "Groceries", Rate: 0.05, CapMonthly: fptr(200)}},
	}
	// 150 already used this month leaves 50 of headroom for a 150 purchase.
	usage := CategoryUsage{"grocery-card": {"Groceries": 150}}
	ranked := BestCards([]models.CardProduct{card}, usage, "", "Groceries", 150)
	require.Len(t, ranked, 1)

	want := (50*0.05 + 100*0.01) / 150
	assert.InDelta(t, want, ranked[0].EffectiveRate, 1e-9)
	assert.Contains(t, ranked[0].Reasons, "Monthly cap reached, overflow earns base rate")
}

func TestBestCardsMatchesScorerBlending(t *testing.T) {
	// The single-purchase path and the catalog scorer share one formula.
	eff := EffectiveCategoryRate(0.01, 0.05, fptr(100), 150)

	card := models.CardProduct{
		Slug:         "cap-card",
		BaseCashback: 0.01,
		Rewards:      []models.RewardRule{{Category: "Gas", Rate: 0.05, CapMonthly: fptr(100)}},
	}
	ranked := BestCards([]models.CardProduct{card}, nil, "", "Gas", 150)
	require.Len(t, ranked, 1)
	assert.InDelta(t, eff, ranked[0].EffectiveRate, 1e-9)
}

func TestBestCardsRankingOrder(t *testing.T) {
	flat := models.CardProduct{Slug: "flat", BaseCashback: 0.02}
	dining := models.CardProduct{
		Slug:         "dining",
		BaseCashback: 0.01,
		Rewards:      []models.RewardRule{{Category: "Dining", Rate: 0.04}},
	}
	ranked := BestCards([]models.CardProduct{flat, dining}, nil, "", "Dining", 50)
	require.Len(t, ranked, 2)
	assert.Equal(t, "dining", ranked[0].Slug)
	assert.Equal(t, "flat", ranked[1].Slug)
}

func TestBestCardsNoCategoryUsesBaseRate(t *testing.T) {
	card := models.CardProduct{Slug: "flat", Issuer: "Bank", ProductName: "Flat", BaseCashback: 0.015}
	ranked := BestCards([]models.CardProduct{card}, nil, "", "", 200)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.015, ranked[0].EffectiveRate, 1e-9)
	assert.Equal(t, "Bank Flat", ranked[0].Display)
}
