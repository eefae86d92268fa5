package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/config"
	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/pkg/llm"
)

type fakeTransactionRepo struct {
	txns []models.Transaction
}

func (f *fakeTransactionRepo) FindByUserSince(_ context.Context, userID primitive.ObjectID, since time.Time, _ []primitive.ObjectID) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, txn := range f.txns {
		if txn.UserID == userID && txn.PostedAt.After(since) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) UpsertSynthetic(context.Context, *models.Transaction) (bool, error) {
	return false, nil
}

func (f *fakeTransactionRepo) InsertMany(_ context.Context, txns []models.Transaction) (int, error) {
	return len(txns), nil
}

func (f *fakeTransactionRepo) Relabel(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID, string, string, string) (int64, error) {
	return 0, nil
}

type fakeAccountRepo struct{}

func (fakeAccountRepo) Create(context.Context, *models.Account) error { return nil }
func (fakeAccountRepo) FindByID(context.Context, primitive.ObjectID) (*models.Account, error) {
	return nil, mongo.ErrNoDocuments
}
func (fakeAccountRepo) FindCreditCardsByUser(context.Context, primitive.ObjectID) ([]*models.Account, error) {
	return nil, nil
}
func (fakeAccountRepo) FindByUserAndProduct(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Account, error) {
	return nil, mongo.ErrNoDocuments
}
func (fakeAccountRepo) CountCreditCardsByUser(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}
func (fakeAccountRepo) UpdateFields(context.Context, primitive.ObjectID, map[string]interface{}) error {
	return nil
}
func (fakeAccountRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

type fakeMerchantRepo struct{}

func (fakeMerchantRepo) GetOrCreate(_ context.Context, canonicalName string) (*models.Merchant, error) {
	return &models.Merchant{ID: primitive.NewObjectID(), CanonicalName: canonicalName}, nil
}
func (fakeMerchantRepo) FindByID(context.Context, primitive.ObjectID) (*models.Merchant, error) {
	return nil, mongo.ErrNoDocuments
}
func (fakeMerchantRepo) FindCategoryRules(context.Context) ([]models.MerchantCategoryRule, error) {
	return nil, nil
}

func newRecommendationRouter(t *testing.T, userID primitive.ObjectID, txns []models.Transaction, products []models.CardProduct) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	spendService := services.NewSpendService(&fakeTransactionRepo{txns: txns}, fakeAccountRepo{}, fakeMerchantRepo{}, logger)
	llmClient, err := llm.NewClient(context.Background(), llm.Config{Mock: true})
	require.NoError(t, err)
	recommendationService := services.NewRecommendationService(
		spendService, &fakeCatalogRepo{products: products}, llmClient, 0, logger)
	handler := NewRecommendationHandler(recommendationService, config.ScoringConfig{
		DefaultWindowDays: 90,
		DefaultLimit:      5,
	})

	router := gin.New()
	router.POST("/api/recommendations", func(c *gin.Context) {
		// Stands in for the auth middleware; the key matches CurrentUser.
		c.Set("currentUser", &models.User{ID: userID})
	}, handler.Recommend)
	return router
}

func recentSpend(userID primitive.ObjectID, daysAgo int, amount float64, category string) models.Transaction {
	return models.Transaction{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		Amount:   amount,
		Category: category,
		PostedAt: time.Now().UTC().AddDate(0, 0, -daysAgo),
	}
}

type recommendationBody struct {
	WindowDays int               `json:"windowDays"`
	Cards      []json.RawMessage `json:"cards"`
}

func postRecommendations(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRecommendDefaultsWindowAndLimit(t *testing.T) {
	userID := primitive.NewObjectID()
	txns := []models.Transaction{
		recentSpend(userID, 5, 120.0, "Groceries"),
		recentSpend(userID, 40, 80.0, "Dining"),
		recentSpend(userID, 70, 60.0, "Groceries"),
	}
	catalog := []models.CardProduct{
		{ID: primitive.NewObjectID(), Slug: "flat-two", ProductName: "Flat Two", Issuer: "Acme", BaseCashback: 0.02, Active: true},
	}
	router := newRecommendationRouter(t, userID, txns, catalog)

	w := postRecommendations(router, `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body recommendationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 90, body.WindowDays)
	assert.NotEmpty(t, body.Cards)
}

func TestRecommendDefaultLimitCapsResults(t *testing.T) {
	userID := primitive.NewObjectID()
	txns := []models.Transaction{recentSpend(userID, 3, 200.0, "Groceries")}
	catalog := make([]models.CardProduct, 0, 7)
	for _, slug := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		catalog = append(catalog, models.CardProduct{
			ID: primitive.NewObjectID(), Slug: slug, ProductName: strings.ToUpper(slug),
			Issuer: "Acme", BaseCashback: 0.01, Active: true,
		})
	}
	router := newRecommendationRouter(t, userID, txns, catalog)

	w := postRecommendations(router, `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body recommendationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Cards, 5)
}

func TestRecommendRejectsNegativeWindow(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newRecommendationRouter(t, userID, nil, nil)

	w := postRecommendations(router, `{"window":-7}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "window must be positive")
}

func TestRecommendAcceptsEmptyBody(t *testing.T) {
	userID := primitive.NewObjectID()
	txns := []models.Transaction{recentSpend(userID, 10, 50.0, "Dining")}
	catalog := []models.CardProduct{
		{ID: primitive.NewObjectID(), Slug: "flat", ProductName: "Flat", Issuer: "Acme", BaseCashback: 0.015, Active: true},
	}
	router := newRecommendationRouter(t, userID, txns, catalog)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body recommendationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 90, body.WindowDays)
	assert.NotEmpty(t, body.Cards)
}
