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

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository handles MongoDB operations for transactions
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
	}
}

// FindByUserSince returns all of a user's transactions posted on or after the
// cutoff, optionally restricted to a set of accounts. The query matches both
// document shapes present in the collection and decodes into the canonical
// record via NormalizeTransactionDoc.
func (r *TransactionRepository) FindByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time, accountIDs []primitive.ObjectID) ([]models.Transaction, error) {
	userClause := bson.M{"$or": []bson.M{
		{"user_id": userID},
		{"userId": userID},
	}}
	dateClause := bson.M{"$or": []bson.M{
		{"posted_at": bson.M{"$gte": since}},
		{"date": bson.M{"$gte": since}},
	}}
	clauses := []bson.M{userClause, dateClause}
	if len(accountIDs) > 0 {
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"account_id": bson.M{"$in": accountIDs}},
			{"accountId": bson.M{"$in": accountIDs}},
		}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "posted_at", Value: -1}, {Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"$and": clauses}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		txns = append(txns, models.NormalizeTransactionDoc(doc))
	}
	return txns, cursor.Err()
}

// UpsertSynthetic inserts a generated transaction keyed by its synthetic key,
// leaving an existing document untouched. Returns true when a new document was
// inserted.
func (r *TransactionRepository) UpsertSynthetic(ctx context.Context, txn *models.Transaction) (bool, error) {
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	filter := bson.M{
		"user_id":       txn.UserID,
		"synthetic_key": txn.SyntheticKey,
	}
	update := bson.M{"$setOnInsert": txn}
	opts := options.Update().SetUpsert(true)
	res, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// InsertMany bulk-inserts imported transactions and returns the inserted count
func (r *TransactionRepository) InsertMany(ctx context.Context, txns []models.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(txns))
	for i := range txns {
		txns[i].CreatedAt = now
		txns[i].UpdatedAt = now
		docs = append(docs, txns[i])
	}
	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}

// Relabel rewrites the merchant and category fields of a single transaction
// owned by the user. Returns the number of documents matched.
func (r *TransactionRepository) Relabel(ctx context.Context, userID, txnID primitive.ObjectID, merchantID primitive.ObjectID, canonicalName, categoryL1, categoryL2 string) (int64, error) {
	filter := bson.M{
		"_id": txnID,
		"$or": []bson.M{
			{"user_id": userID},
			{"userId": userID},
		},
	}
	set := bson.M{
		"merchant_id":   merchantID.Hex(),
		"merchant_name": canonicalName,
		"updated_at":    time.Now().UTC(),
	}
	if categoryL1 != "" {
		set["category"] = categoryL1
	}
	if categoryL2 != "" {
		set["category_l2"] = categoryL2
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
