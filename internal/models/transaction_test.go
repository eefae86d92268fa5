package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeTransactionDocLegacyShape(t *testing.T) {
	userID := primitive.NewObjectID()
	accountID := primitive.NewObjectID()
	posted := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	txn := NormalizeTransactionDoc(bson.M{
		"_id":       primitive.NewObjectID(),
		"userId":    userID,
		"accountId": accountID,
		"amount":    42.5,
		"date":      primitive.NewDateTimeFromTime(posted),
		"category":  "Dining",
		"merchant_name": "CHIPOTLE",
	})

	assert.Equal(t, userID, txn.UserID)
	assert.Equal(t, accountID, txn.AccountID)
	assert.Equal(t, 42.5, txn.Amount)
	assert.True(t, posted.Equal(txn.PostedAt))
	assert.Equal(t, "Dining", txn.Category)
	assert.Equal(t, "CHIPOTLE", txn.MerchantName)
}

func TestNormalizeTransactionDocNormalizedShape(t *testing.T) {
	userID := primitive.NewObjectID()
	posted := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	txn := NormalizeTransactionDoc(bson.M{
		"user_id":            userID,
		"amount_cents":       int64(1999),
		"posted_at":          posted,
		"merchant_name_norm": "NETFLIX",
		"is_synthetic":       true,
		"synthetic_key":      "abc123",
	})

	assert.Equal(t, userID, txn.UserID)
	assert.Equal(t, 19.99, txn.Amount)
	assert.Equal(t, posted, txn.PostedAt)
	assert.Equal(t, "NETFLIX", txn.MerchantName)
	assert.True(t, txn.Synthetic)
	assert.Equal(t, "abc123", txn.SyntheticKey)
}

func TestNormalizeTransactionDocCentsWinOverDollars(t *testing.T) {
	// A migrated document can carry both fields; cents are authoritative.
	txn := NormalizeTransactionDoc(bson.M{
		"amount_cents": 1250,
		"amount":       99.0,
	})
	assert.Equal(t, 12.5, txn.Amount)
}

func TestNormalizeTransactionDocDecimal128Amount(t *testing.T) {
	dec, err := primitive.ParseDecimal128("2345")
	require.NoError(t, err)

	txn := NormalizeTransactionDoc(bson.M{"amount_cents": dec})
	assert.Equal(t, 23.45, txn.Amount)
}

func TestNormalizeTransactionDocHexIDsAndStringDate(t *testing.T) {
	userID := primitive.NewObjectID()

	txn := NormalizeTransactionDoc(bson.M{
		"userId": userID.Hex(),
		"date":   "2025-03-10T00:00:00Z",
	})
	assert.Equal(t, userID, txn.UserID)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), txn.PostedAt)
}

func TestNormalizeTransactionDocMerchantNamePrecedence(t *testing.T) {
	txn := NormalizeTransactionDoc(bson.M{
		"merchant_name":      "Primary",
		"merchant_name_norm": "Secondary",
	})
	assert.Equal(t, "Primary", txn.MerchantName)

	txn = NormalizeTransactionDoc(bson.M{"merchant_name_norm": "Secondary"})
	assert.Equal(t, "Secondary", txn.MerchantName)
}
