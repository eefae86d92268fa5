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

// Compile-time check to ensure CatalogRepository implements the interface
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository handles MongoDB operations for the card-product catalog
type CatalogRepository struct {
	collection *mongo.Collection
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		collection: db.Collection("credit_cards"),
	}
}

// Create inserts a new card product
func (r *CatalogRepository) Create(ctx context.Context, product *models.CardProduct) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.LastUpdated = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// CreateMany bulk-inserts card products, used by the catalog seeder
func (r *CatalogRepository) CreateMany(ctx context.Context, products []*models.CardProduct) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		p.LastUpdated = now
		docs = append(docs, p)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByID finds a card product by ID
func (r *CatalogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CardProduct, error) {
	var product models.CardProduct
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &product, nil
}

// FindBySlug finds a card product by slug regardless of active state
func (r *CatalogRepository) FindBySlug(ctx context.Context, slug string) (*models.CardProduct, error) {
	var product models.CardProduct
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&product)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &product, nil
}

// FindActiveBySlug finds an active card product by slug
func (r *CatalogRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.CardProduct, error) {
	var product models.CardProduct
	err := r.collection.FindOne(ctx, bson.M{"slug": slug, "active": true}).Decode(&product)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &product, nil
}

// FindAll returns the catalog, optionally filtered by active state
func (r *CatalogRepository) FindAll(ctx context.Context, active *bool) ([]models.CardProduct, error) {
	filter := bson.M{}
	if active != nil {
		filter["active"] = *active
	}
	opts := options.Find().SetSort(bson.D{{Key: "product_name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.CardProduct
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindActive returns all active card products
func (r *CatalogRepository) FindActive(ctx context.Context) ([]models.CardProduct, error) {
	active := true
	return r.FindAll(ctx, &active)
}
