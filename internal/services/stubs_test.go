package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
)

// In-memory repository stubs. Only the methods a test drives get a function
// field; everything else returns zero values.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTransactionRepo struct {
	txns    []models.Transaction
	relabel func(userID, txnID, merchantID primitive.ObjectID, name, l1, l2 string) (int64, error)
}

func (s *stubTransactionRepo) FindByUserSince(_ context.Context, _ primitive.ObjectID, since time.Time, _ []primitive.ObjectID) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0, len(s.txns))
	for _, txn := range s.txns {
		if !txn.PostedAt.Before(since) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *stubTransactionRepo) UpsertSynthetic(_ context.Context, _ *models.Transaction) (bool, error) {
	return false, nil
}

func (s *stubTransactionRepo) InsertMany(_ context.Context, txns []models.Transaction) (int, error) {
	return len(txns), nil
}

func (s *stubTransactionRepo) Relabel(_ context.Context, userID, txnID, merchantID primitive.ObjectID, name, l1, l2 string) (int64, error) {
	if s.relabel != nil {
		return s.relabel(userID, txnID, merchantID, name, l1, l2)
	}
	return 0, nil
}

type stubRecurringRepo struct {
	groups  []*models.RecurringGroup
	futures []*models.FutureTransaction
}

func (s *stubRecurringRepo) UpsertGroup(_ context.Context, group *models.RecurringGroup) (primitive.ObjectID, error) {
	s.groups = append(s.groups, group)
	return primitive.NewObjectID(), nil
}

func (s *stubRecurringRepo) FindGroupsByUser(_ context.Context, _ primitive.ObjectID) ([]models.RecurringGroup, error) {
	out := make([]models.RecurringGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (s *stubRecurringRepo) UpsertFuture(_ context.Context, future *models.FutureTransaction) error {
	s.futures = append(s.futures, future)
	return nil
}

func (s *stubRecurringRepo) FindUpcomingByUser(_ context.Context, _ primitive.ObjectID, after time.Time) ([]models.FutureTransaction, error) {
	out := []models.FutureTransaction{}
	for _, f := range s.futures {
		if f.ExpectedAt.After(after) {
			out = append(out, *f)
		}
	}
	return out, nil
}

type stubMerchantRepo struct {
	rules []models.MerchantCategoryRule
}

func (s *stubMerchantRepo) GetOrCreate(_ context.Context, canonicalName string) (*models.Merchant, error) {
	return &models.Merchant{ID: primitive.NewObjectID(), CanonicalName: canonicalName}, nil
}

func (s *stubMerchantRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Merchant, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubMerchantRepo) FindCategoryRules(_ context.Context) ([]models.MerchantCategoryRule, error) {
	return s.rules, nil
}

type stubCatalogRepo struct {
	products []models.CardProduct
}

func (s *stubCatalogRepo) Create(_ context.Context, _ *models.CardProduct) error       { return nil }
func (s *stubCatalogRepo) CreateMany(_ context.Context, _ []*models.CardProduct) error { return nil }

func (s *stubCatalogRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.CardProduct, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubCatalogRepo) FindBySlug(_ context.Context, slug string) (*models.CardProduct, error) {
	for i := range s.products {
		if s.products[i].Slug == slug {
			return &s.products[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubCatalogRepo) FindActiveBySlug(ctx context.Context, slug string) (*models.CardProduct, error) {
	product, err := s.FindBySlug(ctx, slug)
	if err != nil || !product.Active {
		return nil, mongo.ErrNoDocuments
	}
	return product, nil
}

func (s *stubCatalogRepo) FindAll(_ context.Context, active *bool) ([]models.CardProduct, error) {
	if active == nil {
		return s.products, nil
	}
	out := []models.CardProduct{}
	for _, p := range s.products {
		if p.Active == *active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) FindActive(ctx context.Context) ([]models.CardProduct, error) {
	active := true
	return s.FindAll(ctx, &active)
}

type stubAccountRepo struct {
	accounts []*models.Account
}

func (s *stubAccountRepo) Create(_ context.Context, account *models.Account) error {
	account.ID = primitive.NewObjectID()
	s.accounts = append(s.accounts, account)
	return nil
}

func (s *stubAccountRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubAccountRepo) FindCreditCardsByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Account, error) {
	out := []*models.Account{}
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAccountRepo) FindByUserAndProduct(_ context.Context, userID, productID primitive.ObjectID) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.UserID == userID && a.CardProductID == productID {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubAccountRepo) CountCreditCardsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	cards, _ := s.FindCreditCardsByUser(ctx, userID)
	return int64(len(cards)), nil
}

func (s *stubAccountRepo) UpdateFields(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) error {
	return nil
}

func (s *stubAccountRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return nil
}
