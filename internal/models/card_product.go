package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardRule grants an elevated cashback rate on one spend category,
// optionally capped at a monthly spend amount. Spend above the cap earns the
// card's base rate.
type RewardRule struct {
	Category   string   `bson:"category" json:"category"`
	Rate       float64  `bson:"rate" json:"rate"`
	CapMonthly *float64 `bson:"cap_monthly,omitempty" json:"cap_monthly,omitempty"`
}

// WelcomeOffer is a one-time bonus contingent on reaching MinSpend within
// WindowDays of account opening.
type WelcomeOffer struct {
	BonusValueUSD float64 `bson:"bonus_value_usd" json:"bonus_value_usd"`
	MinSpend      float64 `bson:"min_spend" json:"min_spend"`
	WindowDays    int     `bson:"window_days" json:"window_days"`
}

// MerchantOverride pins a fixed earn rate for purchases at one merchant,
// matched case-insensitively by exact name.
type MerchantOverride struct {
	Merchant string  `bson:"merchant" json:"merchant"`
	Rate     float64 `bson:"rate" json:"rate"`
}

// CardProduct is a catalog entry for a credit card product.
type CardProduct struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug              string             `bson:"slug" json:"slug"`
	ProductName       string             `bson:"product_name" json:"product_name"`
	Issuer            string             `bson:"issuer" json:"issuer"`
	Network           string             `bson:"network,omitempty" json:"network,omitempty"`
	BaseCashback      float64            `bson:"base_cashback" json:"base_cashback"`
	Rewards           []RewardRule       `bson:"rewards" json:"rewards"`
	MerchantOverrides []MerchantOverride `bson:"merchant_overrides,omitempty" json:"merchant_overrides,omitempty"`
	WelcomeOffer      *WelcomeOffer      `bson:"welcome_offer,omitempty" json:"welcome_offer,omitempty"`
	AnnualFee         float64            `bson:"annual_fee" json:"annual_fee"`
	ForeignTxFee      float64            `bson:"foreign_tx_fee" json:"foreign_tx_fee"`
	LinkURL           string             `bson:"link_url,omitempty" json:"link_url,omitempty"`
	Features          []string           `bson:"features,omitempty" json:"features,omitempty"`
	Active            bool               `bson:"active" json:"active"`
	LastUpdated       time.Time          `bson:"last_updated,omitempty" json:"last_updated,omitempty"`
}
