package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction is the canonical transaction record used everywhere inside the
// backend. Amounts are dollars, positive for spend and negative for refunds.
type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	AccountID     primitive.ObjectID `bson:"account_id,omitempty" json:"accountId,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	MerchantID    string             `bson:"merchant_id,omitempty" json:"merchantId,omitempty"`
	MerchantName  string             `bson:"merchant_name,omitempty" json:"merchantName,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CleanDesc     string             `bson:"description_clean,omitempty" json:"descriptionClean,omitempty"`
	LogoURL       string             `bson:"logo_url,omitempty" json:"logoUrl,omitempty"`
	MCC           string             `bson:"mcc,omitempty" json:"mcc,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
	Channel       string             `bson:"channel,omitempty" json:"channel,omitempty"`
	PostedAt      time.Time          `bson:"posted_at" json:"postedAt"`
	Synthetic     bool               `bson:"is_synthetic,omitempty" json:"-"`
	SyntheticKey  string             `bson:"synthetic_key,omitempty" json:"-"`
	SeedVersion   string             `bson:"seed_version,omitempty" json:"-"`
	ProviderTxnID string             `bson:"provider_txn_id,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"created_at,omitempty" json:"-"`
	UpdatedAt     time.Time          `bson:"updated_at,omitempty" json:"-"`
}

// NormalizeTransactionDoc maps a raw transaction document into the canonical
// Transaction. Two historical shapes exist side by side in the transactions
// collection: the legacy one (userId, accountId, date, amount in dollars) and
// the normalized one (user_id, account_id, posted_at, amount_cents). Shape
// detection happens here, once, so nothing downstream ever branches on it.
func NormalizeTransactionDoc(doc bson.M) Transaction {
	var txn Transaction

	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		txn.ID = id
	}
	txn.UserID = objectIDField(doc, "user_id", "userId")
	txn.AccountID = objectIDField(doc, "account_id", "accountId")

	if cents, ok := numericField(doc, "amount_cents"); ok {
		txn.Amount = cents / 100
	} else if amount, ok := numericField(doc, "amount"); ok {
		txn.Amount = amount
	}

	txn.Category = stringField(doc, "category")
	txn.MerchantID = stringField(doc, "merchant_id")
	txn.MerchantName = firstStringField(doc, "merchant_name", "merchant_name_norm")
	txn.Description = stringField(doc, "description")
	txn.CleanDesc = stringField(doc, "description_clean")
	txn.LogoURL = firstStringField(doc, "logo_url", "logoUrl")
	txn.MCC = stringField(doc, "mcc")
	txn.Status = stringField(doc, "status")
	txn.Channel = stringField(doc, "channel")
	txn.Currency = stringField(doc, "currency")
	txn.PostedAt = timeField(doc, "posted_at", "date", "authorized_at")

	if v, ok := doc["is_synthetic"].(bool); ok {
		txn.Synthetic = v
	}
	txn.SyntheticKey = stringField(doc, "synthetic_key")
	txn.SeedVersion = stringField(doc, "seed_version")
	txn.ProviderTxnID = stringField(doc, "provider_txn_id")

	return txn
}

func objectIDField(doc bson.M, keys ...string) primitive.ObjectID {
	for _, key := range keys {
		if id, ok := doc[key].(primitive.ObjectID); ok {
			return id
		}
		if raw, ok := doc[key].(string); ok {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				return id
			}
		}
	}
	return primitive.NilObjectID
}

func numericField(doc bson.M, key string) (float64, bool) {
	switch v := doc[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case primitive.Decimal128:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func stringField(doc bson.M, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func firstStringField(doc bson.M, keys ...string) string {
	for _, key := range keys {
		if v := stringField(doc, key); v != "" {
			return v
		}
	}
	return ""
}

func timeField(doc bson.M, keys ...string) time.Time {
	for _, key := range keys {
		switch v := doc[key].(type) {
		case time.Time:
			return v
		case primitive.DateTime:
			return v.Time()
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
