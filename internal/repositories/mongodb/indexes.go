package mongodb

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo server error codes for index creation conflicts.
// 85 IndexOptionsConflict, 86 IndexKeySpecsConflict.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// EnsureIndexes creates the indexes every collection relies on. Creation is
// forgiving: spec conflicts with an existing index and unique violations from
// pre-existing data are logged and skipped rather than failing startup.
//
// The transactions collection carries indexes for both document shapes, the
// legacy one (userId, date) and the normalized one (user_id, posted_at).
// merchants.canonical_name is unique but partial so documents missing the
// field never collide on null.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	type indexSpec struct {
		collection string
		model      mongo.IndexModel
	}

	specs := []indexSpec{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "auth0_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},

		{"accounts", mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("accounts_userId"),
		}},
		{"accounts", mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "account_type", Value: 1},
				{Key: "account_mask", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetSparse(true).
				SetName("userId_1_account_type_1_account_mask_1"),
		}},
		{"accounts", mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "card_product_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		}},
		{"accounts", mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "card_product_slug", Value: 1}},
			Options: options.Index().SetSparse(true),
		}},

		// Legacy transaction shape
		{"transactions", mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		}},
		{"transactions", mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "accountId", Value: 1}, {Key: "date", Value: -1}},
		}},
		// Normalized transaction shape
		{"transactions", mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "posted_at", Value: -1}},
		}},
		{"transactions", mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "merchant_id", Value: 1}, {Key: "posted_at", Value: -1}},
		}},
		{"transactions", mongo.IndexModel{
			Keys:    bson.D{{Key: "source", Value: 1}, {Key: "provider_txn_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},
		{"transactions", mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "synthetic_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},

		{"merchants", mongo.IndexModel{
			Keys: bson.D{{Key: "canonical_name", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("canonical_name_1").
				SetPartialFilterExpression(bson.M{"canonical_name": bson.M{"$exists": true}}),
		}},

		{"recurring_groups", mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "next_expected_at", Value: 1}},
		}},
		{"recurring_groups", mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "merchant_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},

		{"future_transactions", mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "expected_at", Value: 1}},
		}},
		{"future_transactions", mongo.IndexModel{
			Keys:    bson.D{{Key: "recurring_group_id", Value: 1}, {Key: "expected_at", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},

		{"credit_cards", mongo.IndexModel{
			Keys: bson.D{{Key: "issuer", Value: 1}, {Key: "network", Value: 1}},
		}},
		{"credit_cards", mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_1"),
		}},

		{"applications", mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "product_slug", Value: 1}, {Key: "status", Value: 1}},
		}},
	}

	for _, spec := range specs {
		_, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err == nil {
			continue
		}
		if isIgnorableIndexError(err) {
			logger.Warn("skipped index", "collection", spec.collection, "error", err)
			continue
		}
		return err
	}
	return nil
}

// isIgnorableIndexError reports whether index creation failed for a reason
// that should not abort startup: a conflicting existing index or data that
// already violates a requested unique constraint.
func isIgnorableIndexError(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict
	}
	return false
}
