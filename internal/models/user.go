package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences holds per-user display and notification settings.
type Preferences struct {
	Timezone      string          `bson:"timezone" json:"timezone"`
	Currency      string          `bson:"currency" json:"currency"`
	Theme         string          `bson:"theme" json:"theme"`
	Privacy       map[string]bool `bson:"privacy" json:"privacy"`
	Notifications map[string]bool `bson:"notifications" json:"notifications"`
}

// Merge applies a partial preference update, ignoring unknown keys. Nested
// privacy and notification flags merge key by key rather than wholesale.
func (p Preferences) Merge(updates map[string]interface{}) Preferences {
	merged := p
	if merged.Privacy == nil {
		merged.Privacy = map[string]bool{}
	}
	if merged.Notifications == nil {
		merged.Notifications = map[string]bool{}
	}
	for key, value := range updates {
		switch key {
		case "timezone":
			if s, ok := value.(string); ok {
				merged.Timezone = s
			}
		case "currency":
			if s, ok := value.(string); ok {
				merged.Currency = s
			}
		case "theme":
			if s, ok := value.(string); ok {
				merged.Theme = s
			}
		case "privacy":
			merged.Privacy = mergeBoolMap(merged.Privacy, value)
		case "notifications":
			merged.Notifications = mergeBoolMap(merged.Notifications, value)
		}
	}
	return merged
}

func mergeBoolMap(existing map[string]bool, value interface{}) map[string]bool {
	updates, ok := value.(map[string]interface{})
	if !ok {
		return existing
	}
	merged := make(map[string]bool, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		if b, ok := v.(bool); ok {
			merged[k] = b
		}
	}
	return merged
}

// DefaultPreferences returns the preference set assigned to new profiles.
func DefaultPreferences() Preferences {
	return Preferences{
		Timezone: "America/Chicago",
		Currency: "USD",
		Theme:    "system",
		Privacy:  map[string]bool{"blurAmounts": false},
		Notifications: map[string]bool{
			"monthly_summary":    true,
			"new_recommendation": true,
		},
	}
}

// User is a profile resolved from the identity provider's token subject.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AuthID        string             `bson:"auth0_id" json:"-"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	EmailVerified bool               `bson:"email_verified" json:"emailVerified"`
	Preferences   Preferences        `bson:"preferences" json:"preferences"`
	CreatedAt     time.Time          `bson:"created_at" json:"-"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"-"`
}

// TokenClaims is the subset of identity-token claims the backend consumes.
type TokenClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}
