package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/services"
)

// fakeCatalogRepo is an in-memory catalog keyed by slug.
type fakeCatalogRepo struct {
	products []models.CardProduct
}

func (f *fakeCatalogRepo) Create(_ context.Context, product *models.CardProduct) error {
	for _, p := range f.products {
		if p.Slug == product.Slug {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	product.ID = primitive.NewObjectID()
	f.products = append(f.products, *product)
	return nil
}

func (f *fakeCatalogRepo) CreateMany(ctx context.Context, products []*models.CardProduct) error {
	for _, p := range products {
		if err := f.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCatalogRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.CardProduct, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCatalogRepo) FindBySlug(_ context.Context, slug string) (*models.CardProduct, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCatalogRepo) FindActiveBySlug(ctx context.Context, slug string) (*models.CardProduct, error) {
	p, err := f.FindBySlug(ctx, slug)
	if err != nil || !p.Active {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

func (f *fakeCatalogRepo) FindAll(_ context.Context, active *bool) ([]models.CardProduct, error) {
	if active == nil {
		return f.products, nil
	}
	out := []models.CardProduct{}
	for _, p := range f.products {
		if p.Active == *active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) FindActive(ctx context.Context) ([]models.CardProduct, error) {
	active := true
	return f.FindAll(ctx, &active)
}

func newCatalogRouter(repo *fakeCatalogRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(services.NewCatalogService(repo))
	router := gin.New()
	router.GET("/api/cards/catalog", handler.List)
	router.POST("/api/cards/catalog", handler.Create)
	return router
}

func TestCatalogListActiveFilter(t *testing.T) {
	repo := &fakeCatalogRepo{products: []models.CardProduct{
		{Slug: "a", ProductName: "A", Issuer: "X", Active: true},
		{Slug: "b", ProductName: "B", Issuer: "X", Active: false},
	}}
	router := newCatalogRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cards/catalog?active=true", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Cards []models.CardProduct `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Cards, 1)
	assert.Equal(t, "a", body.Cards[0].Slug)
}

func TestCatalogListRejectsBadActiveValue(t *testing.T) {
	router := newCatalogRouter(&fakeCatalogRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cards/catalog?active=maybe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogCreateSingleProduct(t *testing.T) {
	repo := &fakeCatalogRepo{}
	router := newCatalogRouter(repo)

	payload := `{"slug":"new-card","product_name":"New Card","issuer":"Acme","base_cashback":0.02,"active":true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/catalog", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.products, 1)
	assert.Equal(t, "new-card", repo.products[0].Slug)
}

func TestCatalogCreateBatch(t *testing.T) {
	repo := &fakeCatalogRepo{}
	router := newCatalogRouter(repo)

	payload := `[{"slug":"one","product_name":"One","issuer":"Acme"},{"slug":"two","product_name":"Two","issuer":"Acme"}]`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/catalog", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Created int `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Created)
	assert.Len(t, repo.products, 2)
}

func TestCatalogCreateDuplicateSlug(t *testing.T) {
	repo := &fakeCatalogRepo{products: []models.CardProduct{
		{Slug: "taken", ProductName: "Taken", Issuer: "Acme"},
	}}
	router := newCatalogRouter(repo)

	payload := `{"slug":"taken","product_name":"Taken Again","issuer":"Acme"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/catalog", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate catalog slug")
}

func TestCatalogCreateMissingFields(t *testing.T) {
	router := newCatalogRouter(&fakeCatalogRepo{})

	payload := `{"slug":"incomplete"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/catalog", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
