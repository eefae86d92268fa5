package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/models"
)

func testCatalog() *stubCatalogRepo {
	cap := 500.0
	return &stubCatalogRepo{products: []models.CardProduct{
		{
			ID:           primitive.NewObjectID(),
			Slug:         "flat-two",
			ProductName:  "Flat Two",
			Issuer:       "Acme Bank",
			BaseCashback: 0.02,
			Active:       true,
		},
		{
			ID:           primitive.NewObjectID(),
			Slug:         "grocery-plus",
			ProductName:  "Grocery Plus",
			Issuer:       "Acme Bank",
			BaseCashback: 0.01,
			Rewards: []models.RewardRule{
				{Category: "Groceries", Rate: 0.06, CapMonthly: &cap},
			},
			Active: true,
		},
	}}
}

func newTestRewardService(txns []models.Transaction) *RewardService {
	spend := NewSpendService(&stubTransactionRepo{txns: txns}, &stubAccountRepo{}, &stubMerchantRepo{}, discardLogger())
	return NewRewardService(spend, testCatalog())
}

func TestCompareRanksByTotalEarnings(t *testing.T) {
	svc := newTestRewardService(nil)

	result, err := svc.Compare(context.Background(), map[string]float64{
		"Groceries": 400,
		"Gas":       100,
	}, []string{"flat-two", "grocery-plus"})
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	// 400*6% + 100*1% = 25.00 beats flat 2% on 500 = 10.00
	assert.Equal(t, "grocery-plus", result.Results[0].Slug)
	assert.Equal(t, 25.0, result.Results[0].Earnings.Total)
	assert.Equal(t, "flat-two", result.Results[1].Slug)
	assert.Equal(t, 10.0, result.Results[1].Earnings.Total)
}

func TestCompareEchoesMixSorted(t *testing.T) {
	svc := newTestRewardService(nil)

	result, err := svc.Compare(context.Background(), map[string]float64{
		"Travel":    50,
		"Dining":    80,
		"Groceries": 20,
	}, []string{"flat-two"})
	require.NoError(t, err)

	categories := make([]string, 0, len(result.Mix))
	for _, item := range result.Mix {
		categories = append(categories, item.Category)
	}
	assert.Equal(t, []string{"Dining", "Groceries", "Travel"}, categories)
}

func TestCompareSkipsUnknownSlugsAndBadAmounts(t *testing.T) {
	svc := newTestRewardService(nil)

	result, err := svc.Compare(context.Background(), map[string]float64{
		"Groceries": 100,
		"Junk":      -5,
	}, []string{"no-such-card", "flat-two"})
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "flat-two", result.Results[0].Slug)
	require.Len(t, result.Mix, 1)
	assert.Equal(t, "Groceries", result.Mix[0].Category)
}

func TestCompareRejectsEmptyMix(t *testing.T) {
	svc := newTestRewardService(nil)

	_, err := svc.Compare(context.Background(), map[string]float64{"Dining": -10}, []string{"flat-two"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEstimateProjectsToMonth(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now().UTC()
	txns := []models.Transaction{
		{UserID: userID, Amount: 300, Category: "Groceries", PostedAt: now.AddDate(0, 0, -5)},
		{UserID: userID, Amount: 100, Category: "Gas", PostedAt: now.AddDate(0, 0, -10)},
	}
	svc := newTestRewardService(txns)

	estimate, err := svc.Estimate(context.Background(), userID, "grocery-plus", 60)
	require.NoError(t, err)

	assert.Equal(t, "grocery-plus", estimate.Card.Slug)
	assert.Equal(t, 60, estimate.WindowDays)
	// 300*6% + 100*1% = 19.00 over 60 days, halved for a 30-day month.
	assert.Equal(t, 19.0, estimate.Earnings.Total)
	assert.Equal(t, 9.5, estimate.ProjectedMonthly)
}

func TestEstimateUnknownCard(t *testing.T) {
	svc := newTestRewardService(nil)

	_, err := svc.Estimate(context.Background(), primitive.NewObjectID(), "missing", 30)
	assert.ErrorIs(t, err, ErrNotFound)
}
