package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipecoach/backend/internal/models"
)

func txn(amount float64, category, merchant string) models.Transaction {
	return models.Transaction{Amount: amount, Category: category, MerchantID: merchant}
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil, nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.TransactionCount)
	assert.Empty(t, summary.Categories)
	assert.Empty(t, summary.Merchants)
}

func TestAggregateTotalsInvariant(t *testing.T) {
	txns := []models.Transaction{
		txn(120.50, "Groceries", "heb"),
		txn(-35.00, "Shopping", "amazon"), // refund
		txn(60.25, "", "starbucks"),
		txn(14.00, "Food and Drink", "starbucks"),
	}
	summary := Aggregate(txns, nil)

	var want float64
	for _, tx := range txns {
		if tx.Amount > 0 {
			want += tx.Amount
		}
	}
	assert.InDelta(t, want, summary.Total, 1e-9)
	assert.Equal(t, len(txns), summary.TransactionCount)
}

func TestAggregateCategoryFallbackAndShares(t *testing.T) {
	txns := []models.Transaction{
		txn(300, "Dining", "chipotle"),
		txn(100, "", "mystery"),
	}
	summary := Aggregate(txns, nil)

	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "Dining", summary.Categories[0].Key)
	assert.InDelta(t, 0.75, summary.Categories[0].Share, 1e-9)
	assert.Equal(t, UncategorizedKey, summary.Categories[1].Key)
	assert.InDelta(t, 0.25, summary.Categories[1].Share, 1e-9)
}

func TestAggregateRefundsExcludedFromMerchants(t *testing.T) {
	txns := []models.Transaction{
		txn(50, "Shopping", "amazon"),
		txn(-20, "Shopping", "amazon"),
	}
	summary := Aggregate(txns, nil)

	require.Len(t, summary.Merchants, 1)
	assert.Equal(t, 1, summary.Merchants[0].Count)
	assert.InDelta(t, 50, summary.Merchants[0].Amount, 1e-9)
}

func TestAggregateMerchantNamePrecedence(t *testing.T) {
	txns := []models.Transaction{
		{Amount: 10, MerchantID: "heb", CleanDesc: "H-E-B", Description: "HEB #624"},
		{Amount: 10, CleanDesc: "Chipotle", Description: "CHIPOTLE 1234"},
		{Amount: 10, Description: "SQ *COFFEE"},
		{Amount: 10},
	}
	summary := Aggregate(txns, nil)

	names := make([]string, 0, len(summary.Merchants))
	for _, m := range summary.Merchants {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"heb", "Chipotle", "SQ *COFFEE", "Merchant"}, names)
}

func TestAggregateCategoryRulesFirstMatchWins(t *testing.T) {
	rules := CompileCategoryRules([]models.MerchantCategoryRule{
		{Pattern: `UBER\s*\*EATS`, Category: "Food and Drink"},
		{Pattern: "uber", Category: "Transportation"},
	})
	txns := []models.Transaction{
		{Amount: 30, Description: "UBER *EATS SF"},
		{Amount: 18, Description: "UBER TRIP"},
		{Amount: 9, Category: "Coffee", Description: "LOCAL CAFE"},
	}
	summary := Aggregate(txns, rules)

	byName := make(map[string]string)
	for _, m := range summary.Merchants {
		byName[m.Name] = m.Category
	}
	assert.Equal(t, "Food and Drink", byName["UBER *EATS SF"])
	assert.Equal(t, "Transportation", byName["UBER TRIP"])
	// Unmatched merchants keep the transaction-level category.
	assert.Equal(t, "Coffee", byName["LOCAL CAFE"])
}

func TestAggregateInvalidRegexFallsBackToSubstring(t *testing.T) {
	rules := CompileCategoryRules([]models.MerchantCategoryRule{
		{Pattern: "walmart(", Category: "Shopping"},
	})
	summary := Aggregate([]models.Transaction{{Amount: 25, Description: "WALMART( STORE"}}, rules)
	require.Len(t, summary.Merchants, 1)
	assert.Equal(t, "Shopping", summary.Merchants[0].Category)
}

func TestAggregateMerchantSortStable(t *testing.T) {
	txns := []models.Transaction{
		txn(40, "A", "first"),
		txn(40, "B", "second"),
		txn(90, "C", "third"),
	}
	summary := Aggregate(txns, nil)
	require.Len(t, summary.Merchants, 3)
	assert.Equal(t, "third", summary.Merchants[0].Name)
	assert.Equal(t, "first", summary.Merchants[1].Name)
	assert.Equal(t, "second", summary.Merchants[2].Name)
}
