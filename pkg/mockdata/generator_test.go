package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fixedOptions() Options {
	return Options{
		Count:       50,
		Days:        60,
		SeedVersion: "v1",
		Now:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	userID := primitive.NewObjectID()
	accountID := primitive.NewObjectID()

	first := Generate(userID, accountID, fixedOptions())
	second := Generate(userID, accountID, fixedOptions())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].SyntheticKey, second[i].SyntheticKey)
		assert.Equal(t, first[i].Amount, second[i].Amount)
		assert.Equal(t, first[i].MerchantID, second[i].MerchantID)
		assert.Equal(t, first[i].PostedAt, second[i].PostedAt)
	}
}

func TestGenerateDiffersAcrossSeedVersions(t *testing.T) {
	userID := primitive.NewObjectID()
	accountID := primitive.NewObjectID()

	opts := fixedOptions()
	v1 := Generate(userID, accountID, opts)
	opts.SeedVersion = "v2"
	v2 := Generate(userID, accountID, opts)

	differs := false
	for i := range v1 {
		if v1[i].SyntheticKey != v2[i].SyntheticKey {
			differs = true
			break
		}
	}
	assert.True(t, differs, "different seed versions should produce different keys")
}

func TestGenerateUniqueSyntheticKeys(t *testing.T) {
	userID := primitive.NewObjectID()
	accountID := primitive.NewObjectID()

	txns := Generate(userID, accountID, fixedOptions())
	seen := map[string]bool{}
	for _, txn := range txns {
		assert.False(t, seen[txn.SyntheticKey], "duplicate synthetic key %s", txn.SyntheticKey)
		seen[txn.SyntheticKey] = true
	}
}

func TestGenerateRespectsWindowAndCatalog(t *testing.T) {
	userID := primitive.NewObjectID()
	accountID := primitive.NewObjectID()

	opts := fixedOptions()
	txns := Generate(userID, accountID, opts)
	require.Len(t, txns, opts.Count)

	earliest := opts.Now.AddDate(0, 0, -opts.Days-3)
	byID := map[string]Merchant{}
	for _, m := range Merchants {
		byID[m.ID] = m
	}
	for _, txn := range txns {
		assert.True(t, txn.PostedAt.After(earliest), "posted_at too old: %s", txn.PostedAt)
		merchant, ok := byID[txn.MerchantID]
		require.True(t, ok, "unknown merchant %s", txn.MerchantID)
		assert.Equal(t, merchant.Category, txn.Category)
		assert.True(t, txn.Synthetic)
		if txn.Status != "refund" {
			assert.Greater(t, txn.Amount, 0.0)
		} else {
			assert.Less(t, txn.Amount, 0.0)
		}
	}
}
