package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
)

// CatalogService reads and maintains the card-product catalog. Writes are
// admin-only; reads back the public catalog endpoint.
type CatalogService struct {
	catalogRepo repositories.CatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogRepo repositories.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// List returns catalog products, optionally filtered by active state
func (s *CatalogService) List(ctx context.Context, active *bool) ([]models.CardProduct, error) {
	return s.catalogRepo.FindAll(ctx, active)
}

// validateProduct checks the required fields of a catalog entry and trims its
// string fields in place.
func validateProduct(product *models.CardProduct) error {
	product.Slug = strings.TrimSpace(product.Slug)
	product.ProductName = strings.TrimSpace(product.ProductName)
	product.Issuer = strings.TrimSpace(product.Issuer)
	product.Network = strings.TrimSpace(product.Network)
	product.LinkURL = strings.TrimSpace(product.LinkURL)

	if product.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrValidation)
	}
	if product.ProductName == "" {
		return fmt.Errorf("%w: product_name is required", ErrValidation)
	}
	if product.Issuer == "" {
		return fmt.Errorf("%w: issuer is required", ErrValidation)
	}

	rules := product.Rewards[:0]
	for _, rule := range product.Rewards {
		if rule.Category == "" {
			continue
		}
		rules = append(rules, rule)
	}
	product.Rewards = rules
	return nil
}

// Create inserts one catalog product
func (s *CatalogService) Create(ctx context.Context, product *models.CardProduct) (*models.CardProduct, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.catalogRepo.Create(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: duplicate catalog slug", ErrValidation)
		}
		return nil, err
	}
	return product, nil
}

// CreateMany inserts a batch of catalog products
func (s *CatalogService) CreateMany(ctx context.Context, products []*models.CardProduct) ([]*models.CardProduct, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: payload must contain at least one catalog entry", ErrValidation)
	}
	for _, product := range products {
		if err := validateProduct(product); err != nil {
			return nil, err
		}
	}
	if err := s.catalogRepo.CreateMany(ctx, products); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: duplicate catalog slug", ErrValidation)
		}
		return nil, err
	}
	return products, nil
}
