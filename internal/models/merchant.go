package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Merchant is a canonical merchant record keyed by normalized name.
type Merchant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CanonicalName string             `bson:"canonical_name" json:"canonicalName"`
	Synonyms      []string           `bson:"synonyms" json:"synonyms"`
	Regexes       []string           `bson:"regexes" json:"regexes"`
	CreatedAt     time.Time          `bson:"created_at" json:"-"`
}

// MerchantCategoryRule maps a merchant-name pattern to a spend category.
// Pattern is compiled as a regex where valid, otherwise matched as a
// case-insensitive substring.
type MerchantCategoryRule struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Pattern  string             `bson:"pattern" json:"pattern"`
	Category string             `bson:"category" json:"category"`
}

// RecurringGroup is a detected recurring merchant for a user.
type RecurringGroup struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	MerchantID     string             `bson:"merchant_id" json:"merchantId"`
	MerchantName   string             `bson:"merchant_name" json:"merchantName"`
	Period         string             `bson:"period" json:"period"`
	TypicalAmount  float64            `bson:"typical_amount" json:"typicalAmount"`
	VariancePct    float64            `bson:"variance_pct" json:"variancePct"`
	LastSeenAt     time.Time          `bson:"last_seen_at" json:"lastSeenAt"`
	NextExpectedAt time.Time          `bson:"next_expected_at" json:"nextExpectedAt"`
	Confidence     float64            `bson:"confidence" json:"confidence"`
	CreatedAt      time.Time          `bson:"created_at,omitempty" json:"-"`
	UpdatedAt      time.Time          `bson:"updated_at,omitempty" json:"-"`
}

// FutureTransaction is a predicted upcoming charge for a recurring group.
type FutureTransaction struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"user_id" json:"userId"`
	MerchantID       string             `bson:"merchant_id" json:"merchantId"`
	RecurringGroupID primitive.ObjectID `bson:"recurring_group_id" json:"recurringGroupId"`
	AmountPredicted  float64            `bson:"amount_predicted" json:"amountPredicted"`
	ExpectedAt       time.Time          `bson:"expected_at" json:"expectedAt"`
	Status           string             `bson:"status" json:"status"`
	Explain          string             `bson:"explain" json:"explain"`
	Confidence       float64            `bson:"confidence" json:"confidence"`
	CreatedAt        time.Time          `bson:"created_at,omitempty" json:"-"`
}
