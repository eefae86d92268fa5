package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
)

// Compile-time check to ensure ApplicationRepository implements the interface
var _ repositories.ApplicationRepository = (*ApplicationRepository)(nil)

// ApplicationRepository handles MongoDB operations for card applications
type ApplicationRepository struct {
	collection *mongo.Collection
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		collection: db.Collection("applications"),
	}
}

// Create inserts a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt
	_, err := r.collection.InsertOne(ctx, app)
	return err
}

// FindByID finds an application by ID
func (r *ApplicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var app models.Application
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &app, nil
}

// FindActiveByUserAndSlug finds a user's in-flight application for a product
func (r *ApplicationRepository) FindActiveByUserAndSlug(ctx context.Context, userID primitive.ObjectID, slug string) (*models.Application, error) {
	var app models.Application
	filter := bson.M{
		"userId":       userID,
		"product_slug": slug,
		"status":       bson.M{"$in": models.ActiveApplicationStatuses},
	}
	err := r.collection.FindOne(ctx, filter).Decode(&app)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &app, nil
}

// UpdateStatus transitions an application to a new status
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
