package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
)

// Compile-time check to ensure RecurringRepository implements the interface
var _ repositories.RecurringRepository = (*RecurringRepository)(nil)

// RecurringRepository handles MongoDB operations for recurring-bill state
type RecurringRepository struct {
	groups  *mongo.Collection
	futures *mongo.Collection
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(db *mongo.Database) *RecurringRepository {
	return &RecurringRepository{
		groups:  db.Collection("recurring_groups"),
		futures: db.Collection("future_transactions"),
	}
}

// UpsertGroup writes a detected recurring group keyed by user and merchant,
// returning the group's document ID.
func (r *RecurringRepository) UpsertGroup(ctx context.Context, group *models.RecurringGroup) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	filter := bson.M{"user_id": group.UserID, "merchant_id": group.MerchantID}
	update := bson.M{
		"$set": bson.M{
			"merchant_name":    group.MerchantName,
			"period":           group.Period,
			"typical_amount":   group.TypicalAmount,
			"variance_pct":     group.VariancePct,
			"last_seen_at":     group.LastSeenAt,
			"next_expected_at": group.NextExpectedAt,
			"confidence":       group.Confidence,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"user_id":     group.UserID,
			"merchant_id": group.MerchantID,
			"created_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 1})

	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := r.groups.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return primitive.NilObjectID, err
	}
	group.ID = doc.ID
	return doc.ID, nil
}

// FindGroupsByUser returns a user's recurring groups, soonest expected first
func (r *RecurringRepository) FindGroupsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.RecurringGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "next_expected_at", Value: 1}})
	cursor, err := r.groups.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.RecurringGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UpsertFuture writes a predicted charge keyed by its recurring group and date
func (r *RecurringRepository) UpsertFuture(ctx context.Context, future *models.FutureTransaction) error {
	now := time.Now().UTC()
	filter := bson.M{
		"recurring_group_id": future.RecurringGroupID,
		"expected_at":        future.ExpectedAt,
	}
	update := bson.M{
		"$set": bson.M{
			"user_id":          future.UserID,
			"merchant_id":      future.MerchantID,
			"amount_predicted": future.AmountPredicted,
			"status":           future.Status,
			"explain":          future.Explain,
			"confidence":       future.Confidence,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.futures.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindUpcomingByUser returns predicted charges expected after the cutoff
func (r *RecurringRepository) FindUpcomingByUser(ctx context.Context, userID primitive.ObjectID, after time.Time) ([]models.FutureTransaction, error) {
	filter := bson.M{"user_id": userID, "expected_at": bson.M{"$gte": after}}
	opts := options.Find().SetSort(bson.D{{Key: "expected_at", Value: 1}})
	cursor, err := r.futures.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var futures []models.FutureTransaction
	if err := cursor.All(ctx, &futures); err != nil {
		return nil, err
	}
	return futures, nil
}
