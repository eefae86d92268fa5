package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ApplicationService runs the card application flow: start against an active
// catalog product, then approve, which provisions an account.
type ApplicationService struct {
	applicationRepo repositories.ApplicationRepository
	catalogRepo     repositories.CatalogRepository
	accountRepo     repositories.AccountRepository
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	catalogRepo repositories.CatalogRepository,
	accountRepo repositories.AccountRepository,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		catalogRepo:     catalogRepo,
		accountRepo:     accountRepo,
	}
}

// StartResult is the POST /applications response.
type StartResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Resumed bool   `json:"-"`
}

// Start opens an application for an active catalog product. An in-flight
// application for the same product is returned instead of creating a second.
func (s *ApplicationService) Start(ctx context.Context, userID primitive.ObjectID, slug string) (*StartResult, error) {
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: invalid slug", ErrValidation)
	}

	product, err := s.catalogRepo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: unknown product slug", ErrValidation)
		}
		return nil, err
	}

	existing, err := s.applicationRepo.FindActiveByUserAndSlug(ctx, userID, slug)
	if err == nil {
		return &StartResult{ID: existing.ID.Hex(), Status: existing.Status, Resumed: true}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	app := &models.Application{
		UserID:        userID,
		ProductSlug:   slug,
		CardProductID: product.ID,
		Status:        "started",
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return &StartResult{ID: app.ID.Hex(), Status: app.Status}, nil
}

// Approve marks an application approved and provisions the card account. When
// the user already holds an account for the product, it is refreshed instead
// of duplicated.
func (s *ApplicationService) Approve(ctx context.Context, userID, applicationID primitive.ObjectID) error {
	app, err := s.applicationRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: application", ErrNotFound)
		}
		return err
	}
	if app.UserID != userID {
		return fmt.Errorf("%w: application", ErrNotFound)
	}

	product, err := s.catalogRepo.FindByID(ctx, app.CardProductID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: catalog product missing", ErrNotFound)
		}
		return err
	}

	now := time.Now().UTC()
	existing, err := s.accountRepo.FindByUserAndProduct(ctx, userID, product.ID)
	switch {
	case err == nil:
		fields := map[string]interface{}{}
		if existing.AppliedAt == nil {
			fields["applied_at"] = now
		}
		if existing.Status != "Applied" {
			fields["status"] = "Applied"
		}
		if existing.CardProductSlug != product.Slug {
			fields["card_product_slug"] = product.Slug
		}
		if len(fields) > 0 {
			if err := s.accountRepo.UpdateFields(ctx, existing.ID, fields); err != nil {
				return err
			}
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		account := &models.Account{
			UserID:          userID,
			AccountType:     models.AccountTypeCreditCard,
			Nickname:        product.ProductName,
			Issuer:          product.Issuer,
			Network:         product.Network,
			CardProductID:   product.ID,
			CardProductSlug: product.Slug,
			Status:          "Applied",
			AppliedAt:       &now,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return err
		}
	default:
		return err
	}

	return s.applicationRepo.UpdateStatus(ctx, app.ID, "approved")
}
