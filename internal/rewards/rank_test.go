package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipecoach/backend/internal/models"
)

func TestRankCatalogEmptySignalShortCircuit(t *testing.T) {
	cards := []models.CardProduct{diningCard()}

	ranked, err := RankCatalog(nil, Mix{}, 0, 30, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	// Empty mix blocks ranking even with a nonzero monthly total.
	ranked, err = RankCatalog(cards, Mix{}, 500, 30, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	ranked, err = RankCatalog(cards, Mix{"Dining": 1}, 0, 30, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankCatalogStableTieOrder(t *testing.T) {
	flat := func(slug string) models.CardProduct {
		return models.CardProduct{Slug: slug, BaseCashback: 0.02, Active: true}
	}
	cards := []models.CardProduct{flat("alpha"), flat("beta"), flat("gamma")}
	mix := Mix{"Other": 1}

	first, err := RankCatalog(cards, mix, 1000, 30, 0)
	require.NoError(t, err)
	second, err := RankCatalog(cards, mix, 1000, 30, 0)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, "alpha", first[0].Slug)
	assert.Equal(t, "beta", first[1].Slug)
	assert.Equal(t, "gamma", first[2].Slug)
	assert.Equal(t, first, second)
}

func TestRankCatalogLimit(t *testing.T) {
	cards := []models.CardProduct{
		{Slug: "a", BaseCashback: 0.01},
		{Slug: "b", BaseCashback: 0.02},
		{Slug: "c", BaseCashback: 0.03},
	}
	mix := Mix{"Other": 1}

	ranked, err := RankCatalog(cards, mix, 1000, 30, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "c", ranked[0].Slug)
	assert.Equal(t, "b", ranked[1].Slug)

	all, err := RankCatalog(cards, mix, 1000, 30, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRankCatalogSkipsInvalidCards(t *testing.T) {
	good := models.CardProduct{Slug: "good", BaseCashback: 0.02}
	bad := models.CardProduct{Slug: "bad", BaseCashback: -1}

	ranked, err := RankCatalog([]models.CardProduct{bad, good}, Mix{"Other": 1}, 1000, 30, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, ranked, 1)
	assert.Equal(t, "good", ranked[0].Slug)
}

func TestRankCatalogScenarioEndToEnd(t *testing.T) {
	// 90 days of transactions totaling $2,700.
	txns := []models.Transaction{
		txn(900, "Groceries", "heb"),
		txn(600, "Dining", "chipotle"),
		txn(1200, "Other", "amazon"),
	}
	summary := Aggregate(txns, nil)
	mix := MixFromSummary(summary)
	require.InDelta(t, 1.0/3.0, mix["Groceries"], 1e-9)
	require.InDelta(t, 2.0/9.0, mix["Dining"], 1e-9)
	require.InDelta(t, 4.0/9.0, mix["Other"], 1e-9)

	monthlyTotal := ProjectMonthly(summary.Total, 90, mix, 0)
	require.InDelta(t, 900, monthlyTotal, 1e-9)

	grocery := models.CardProduct{
		Slug:         "grocery-max",
		BaseCashback: 0.01,
		AnnualFee:    0,
		Rewards:      []models.RewardRule{{Category: "Groceries", Rate: 0.06, CapMonthly: fptr(500)}},
	}
	flat := models.CardProduct{Slug: "flat-two", BaseCashback: 0.02, AnnualFee: 0}

	ranked, err := RankCatalog([]models.CardProduct{flat, grocery}, mix, monthlyTotal, 90, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// grocery: base 9/mo + (0.06-0.01)*300 = 24/mo -> 288/yr
	// flat: 18/mo -> 216/yr
	assert.Equal(t, "grocery-max", ranked[0].Slug)
	assert.Greater(t, ranked[0].Net, ranked[1].Net)
}
