package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/models"
)

// UserRepository defines the interface for user profile operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByAuthID(ctx context.Context, authID string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
}

// TransactionRepository defines the interface for transaction reads and the
// few writes the backend performs (synthetic seeding, imports, relabeling).
// Reads normalize both historical document shapes into the canonical record.
type TransactionRepository interface {
	FindByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time, accountIDs []primitive.ObjectID) ([]models.Transaction, error)
	UpsertSynthetic(ctx context.Context, txn *models.Transaction) (bool, error)
	InsertMany(ctx context.Context, txns []models.Transaction) (int, error)
	Relabel(ctx context.Context, userID, txnID primitive.ObjectID, merchantID primitive.ObjectID, canonicalName, categoryL1, categoryL2 string) (int64, error)
}

// AccountRepository defines the interface for linked card accounts
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindCreditCardsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Account, error)
	FindByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.Account, error)
	CountCreditCardsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CatalogRepository defines the interface for the card-product catalog
type CatalogRepository interface {
	Create(ctx context.Context, product *models.CardProduct) error
	CreateMany(ctx context.Context, products []*models.CardProduct) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CardProduct, error)
	FindBySlug(ctx context.Context, slug string) (*models.CardProduct, error)
	FindActiveBySlug(ctx context.Context, slug string) (*models.CardProduct, error)
	FindAll(ctx context.Context, active *bool) ([]models.CardProduct, error)
	FindActive(ctx context.Context) ([]models.CardProduct, error)
}

// ApplicationRepository defines the interface for card applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	FindActiveByUserAndSlug(ctx context.Context, userID primitive.ObjectID, slug string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// MerchantRepository defines the interface for canonical merchants and
// merchant-to-category mapping rules
type MerchantRepository interface {
	GetOrCreate(ctx context.Context, canonicalName string) (*models.Merchant, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error)
	FindCategoryRules(ctx context.Context) ([]models.MerchantCategoryRule, error)
}

// RecurringRepository defines the interface for recurring-bill detection state
type RecurringRepository interface {
	UpsertGroup(ctx context.Context, group *models.RecurringGroup) (primitive.ObjectID, error)
	FindGroupsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.RecurringGroup, error)
	UpsertFuture(ctx context.Context, future *models.FutureTransaction) error
	FindUpcomingByUser(ctx context.Context, userID primitive.ObjectID, after time.Time) ([]models.FutureTransaction, error)
}
