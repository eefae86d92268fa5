package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
)

// Compile-time check to ensure MerchantRepository implements the interface
var _ repositories.MerchantRepository = (*MerchantRepository)(nil)

// MerchantRepository handles MongoDB operations for canonical merchants and
// merchant category rules
type MerchantRepository struct {
	merchants *mongo.Collection
	rules     *mongo.Collection
}

// NewMerchantRepository creates a new MerchantRepository
func NewMerchantRepository(db *mongo.Database) *MerchantRepository {
	return &MerchantRepository{
		merchants: db.Collection("merchants"),
		rules:     db.Collection("merchant_category_rules"),
	}
}

// GetOrCreate returns the merchant with the given canonical name, creating it
// when absent. A duplicate-key race with a concurrent creator resolves by
// re-reading the winner's document.
func (r *MerchantRepository) GetOrCreate(ctx context.Context, canonicalName string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.merchants.FindOne(ctx, bson.M{"canonical_name": canonicalName}).Decode(&merchant)
	if err == nil {
		return &merchant, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	merchant = models.Merchant{
		ID:            primitive.NewObjectID(),
		CanonicalName: canonicalName,
		Synonyms:      []string{},
		Regexes:       []string{},
		CreatedAt:     time.Now().UTC(),
	}
	_, err = r.merchants.InsertOne(ctx, merchant)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			var existing models.Merchant
			if ferr := r.merchants.FindOne(ctx, bson.M{"canonical_name": canonicalName}).Decode(&existing); ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &merchant, nil
}

// FindByID finds a merchant by ID
func (r *MerchantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.merchants.FindOne(ctx, bson.M{"_id": id}).Decode(&merchant)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &merchant, nil
}

// FindCategoryRules returns all merchant-to-category mapping rules
func (r *MerchantRepository) FindCategoryRules(ctx context.Context) ([]models.MerchantCategoryRule, error) {
	cursor, err := r.rules.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.MerchantCategoryRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}
