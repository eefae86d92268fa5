package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a credit card the user has linked or been provisioned through an
// approved application.
type Account struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	AccountType     string             `bson:"account_type" json:"type"`
	Nickname        string             `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Issuer          string             `bson:"issuer" json:"issuer"`
	Network         string             `bson:"network,omitempty" json:"network,omitempty"`
	AccountMask     string             `bson:"account_mask" json:"mask"`
	ExpiryMonth     *int               `bson:"expiry_month,omitempty" json:"expiryMonth,omitempty"`
	ExpiryYear      *int               `bson:"expiry_year,omitempty" json:"expiryYear,omitempty"`
	CardProductID   primitive.ObjectID `bson:"card_product_id,omitempty" json:"cardProductId,omitempty"`
	CardProductSlug string             `bson:"card_product_slug,omitempty" json:"cardProductSlug,omitempty"`
	Status          string             `bson:"status" json:"status"`
	AppliedAt       *time.Time         `bson:"applied_at,omitempty" json:"appliedAt,omitempty"`
	LastSync        *time.Time         `bson:"last_sync,omitempty" json:"lastSynced,omitempty"`
	OpenedAt        *time.Time         `bson:"opened_at,omitempty" json:"openedAt,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"-"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"-"`
}

const AccountTypeCreditCard = "credit_card"

// Application tracks a user's card application flow.
type Application struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	ProductSlug   string             `bson:"product_slug" json:"productSlug"`
	CardProductID primitive.ObjectID `bson:"card_product_id" json:"cardProductId"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Application statuses considered in flight. A new application for the same
// product is folded into an existing one in any of these states.
var ActiveApplicationStatuses = []string{"started", "submitted", "approved"}
