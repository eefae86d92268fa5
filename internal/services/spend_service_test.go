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

func TestSummaryTotalsAndAccounts(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now().UTC()
	txns := []models.Transaction{
		{UserID: userID, Amount: 60, Category: "Groceries", PostedAt: now.AddDate(0, 0, -1)},
		{UserID: userID, Amount: 40, Category: "Dining", PostedAt: now.AddDate(0, 0, -2)},
		{UserID: userID, Amount: -15, Category: "Dining", PostedAt: now.AddDate(0, 0, -3)},
	}
	accountRepo := &stubAccountRepo{accounts: []*models.Account{
		{ID: primitive.NewObjectID(), UserID: userID, AccountType: models.AccountTypeCreditCard},
	}}
	svc := NewSpendService(&stubTransactionRepo{txns: txns}, accountRepo, &stubMerchantRepo{}, discardLogger())

	summary, err := svc.Summary(context.Background(), userID, 30, nil)
	require.NoError(t, err)

	// The refund does not reduce spend but still counts as a transaction.
	assert.Equal(t, 100.0, summary.Stats.TotalSpend)
	assert.Equal(t, 3, summary.Stats.Txns)
	assert.Equal(t, int64(1), summary.Stats.Accounts)

	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, "Groceries", summary.ByCategory[0].Name)
	assert.Equal(t, 60.0, summary.ByCategory[0].Total)
	assert.Equal(t, "Dining", summary.ByCategory[1].Name)
	assert.Equal(t, 40.0, summary.ByCategory[1].Total)
}

func TestSummaryExcludesTransactionsOutsideWindow(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now().UTC()
	txns := []models.Transaction{
		{UserID: userID, Amount: 25, Category: "Gas", PostedAt: now.AddDate(0, 0, -5)},
		{UserID: userID, Amount: 99, Category: "Gas", PostedAt: now.AddDate(0, 0, -45)},
	}
	svc := NewSpendService(&stubTransactionRepo{txns: txns}, &stubAccountRepo{}, &stubMerchantRepo{}, discardLogger())

	summary, err := svc.Summary(context.Background(), userID, 30, nil)
	require.NoError(t, err)
	assert.Equal(t, 25.0, summary.Stats.TotalSpend)
	assert.Equal(t, 1, summary.Stats.Txns)
}

func TestTopMerchantsLimitAndOrder(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now().UTC()
	txns := []models.Transaction{
		{UserID: userID, Amount: 10, CleanDesc: "Chipotle", PostedAt: now.AddDate(0, 0, -1)},
		{UserID: userID, Amount: 90, CleanDesc: "Whole Foods", PostedAt: now.AddDate(0, 0, -2)},
		{UserID: userID, Amount: 30, CleanDesc: "Chipotle", PostedAt: now.AddDate(0, 0, -3)},
		{UserID: userID, Amount: 20, CleanDesc: "Shell", PostedAt: now.AddDate(0, 0, -4)},
	}
	svc := NewSpendService(&stubTransactionRepo{txns: txns}, &stubAccountRepo{}, &stubMerchantRepo{}, discardLogger())

	merchants, err := svc.TopMerchants(context.Background(), userID, 30, 2, nil)
	require.NoError(t, err)

	require.Len(t, merchants, 2)
	assert.Equal(t, "Whole Foods", merchants[0].Name)
	assert.Equal(t, 90.0, merchants[0].Total)
	assert.Equal(t, "Chipotle", merchants[1].Name)
	assert.Equal(t, 40.0, merchants[1].Total)
	assert.Equal(t, 2, merchants[1].Count)
}

func TestDetailsAppliesMerchantCategoryRules(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now().UTC()
	txns := []models.Transaction{
		{UserID: userID, Amount: 50, CleanDesc: "SHELL OIL 1234", PostedAt: now.AddDate(0, 0, -1)},
	}
	merchantRepo := &stubMerchantRepo{rules: []models.MerchantCategoryRule{
		{Pattern: "shell", Category: "Gas"},
	}}
	svc := NewSpendService(&stubTransactionRepo{txns: txns}, &stubAccountRepo{}, merchantRepo, discardLogger())

	details, err := svc.Details(context.Background(), userID, 30, nil)
	require.NoError(t, err)

	require.Len(t, details.Merchants, 1)
	assert.Equal(t, "Gas", details.Merchants[0].Category)
}

func TestMixNormalizes(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now().UTC()
	txns := []models.Transaction{
		{UserID: userID, Amount: 75, Category: "Dining", PostedAt: now.AddDate(0, 0, -1)},
		{UserID: userID, Amount: 25, Category: "Travel", PostedAt: now.AddDate(0, 0, -2)},
	}
	svc := NewSpendService(&stubTransactionRepo{txns: txns}, &stubAccountRepo{}, &stubMerchantRepo{}, discardLogger())

	mix, total, windowTxns, err := svc.Mix(context.Background(), userID, 30, nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, total)
	assert.Len(t, windowTxns, 2)
	assert.InDelta(t, 0.75, mix["Dining"], 1e-9)
	assert.InDelta(t, 0.25, mix["Travel"], 1e-9)
}
