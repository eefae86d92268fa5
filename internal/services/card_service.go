package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
	"github.com/swipecoach/backend/internal/rewards"
)

const cardSummaryWindowDays = 30

// CardService manages a user's linked credit cards.
type CardService struct {
	accountRepo repositories.AccountRepository
	catalogRepo repositories.CatalogRepository
	spend       *SpendService
}

// NewCardService creates a new CardService
func NewCardService(
	accountRepo repositories.AccountRepository,
	catalogRepo repositories.CatalogRepository,
	spend *SpendService,
) *CardService {
	return &CardService{
		accountRepo: accountRepo,
		catalogRepo: catalogRepo,
		spend:       spend,
	}
}

// List returns the user's credit cards sorted by nickname
func (s *CardService) List(ctx context.Context, userID primitive.ObjectID) ([]*models.Account, error) {
	accounts, err := s.accountRepo.FindCreditCardsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Nickname < accounts[j].Nickname
	})
	return accounts, nil
}

// AddCardInput is the payload for linking a card manually.
type AddCardInput struct {
	Nickname        string
	Issuer          string
	Network         string
	Mask            string
	ExpiryMonth     int
	ExpiryYear      int
	CardProductID   string
	CardProductSlug string
	Status          string
}

// Add validates and links a new card for the user
func (s *CardService) Add(ctx context.Context, userID primitive.ObjectID, input AddCardInput) (*models.Account, error) {
	if input.Issuer == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrValidation)
	}
	if input.Network == "" {
		return nil, fmt.Errorf("%w: network is required", ErrValidation)
	}
	mask := strings.TrimSpace(input.Mask)
	if len(mask) != 4 || strings.Trim(mask, "0123456789") != "" {
		return nil, fmt.Errorf("%w: mask (last4) must be 4 digits", ErrValidation)
	}
	if input.ExpiryMonth < 1 || input.ExpiryMonth > 12 {
		return nil, fmt.Errorf("%w: expiry_month must be between 1 and 12", ErrValidation)
	}
	currentYear := time.Now().UTC().Year()
	if input.ExpiryYear < currentYear || input.ExpiryYear > currentYear+20 {
		return nil, fmt.Errorf("%w: expiry_year must be within a valid range", ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = "Active"
	}
	account := &models.Account{
		UserID:          userID,
		AccountType:     models.AccountTypeCreditCard,
		Nickname:        strings.TrimSpace(input.Nickname),
		Issuer:          input.Issuer,
		Network:         input.Network,
		AccountMask:     mask,
		ExpiryMonth:     &input.ExpiryMonth,
		ExpiryYear:      &input.ExpiryYear,
		CardProductSlug: strings.TrimSpace(input.CardProductSlug),
		Status:          status,
	}
	if raw := strings.TrimSpace(input.CardProductID); raw != "" {
		productID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: card_product_id must be a valid id", ErrValidation)
		}
		account.CardProductID = productID
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// getOwned loads a card and checks it belongs to the user
func (s *CardService) getOwned(ctx context.Context, userID, cardID primitive.ObjectID) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: card", ErrNotFound)
		}
		return nil, err
	}
	if account.UserID != userID || account.AccountType != models.AccountTypeCreditCard {
		return nil, fmt.Errorf("%w: card", ErrNotFound)
	}
	return account, nil
}

// CardSummary is the recent-spend block of the card detail response.
type CardSummary struct {
	WindowDays int             `json:"windowDays"`
	Spend      float64         `json:"spend"`
	Txns       int             `json:"txns"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

// CardDetail is the GET /cards/:id response.
type CardDetail struct {
	*models.Account
	ProductName     string      `json:"productName,omitempty"`
	Features        []string    `json:"features,omitempty"`
	CardProductSlug string      `json:"cardProductSlug,omitempty"`
	Summary         CardSummary `json:"summary"`
}

// Get returns one card with its catalog product info and a 30-day spend summary
func (s *CardService) Get(ctx context.Context, userID, cardID primitive.ObjectID) (*CardDetail, error) {
	account, err := s.getOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	detail := &CardDetail{Account: account, CardProductSlug: account.CardProductSlug}

	product := s.resolveProduct(ctx, account)
	if product != nil {
		detail.ProductName = product.ProductName
		detail.Features = product.Features
		detail.CardProductSlug = product.Slug
	}

	txns, err := s.spend.LoadWindow(ctx, userID, cardSummaryWindowDays, []primitive.ObjectID{account.ID})
	if err != nil {
		return nil, err
	}
	summary := rewards.Aggregate(txns, nil)
	byCategory := make([]CategoryTotal, 0, len(summary.Categories))
	for _, row := range summary.Categories {
		byCategory = append(byCategory, CategoryTotal{Name: row.Key, Total: row.Amount})
	}
	detail.Summary = CardSummary{
		WindowDays: cardSummaryWindowDays,
		Spend:      summary.Total,
		Txns:       summary.TransactionCount,
		ByCategory: byCategory,
	}
	return detail, nil
}

// resolveProduct finds the catalog entry backing an account, trying the
// product ID first, then slug, then an issuer plus nickname match.
func (s *CardService) resolveProduct(ctx context.Context, account *models.Account) *models.CardProduct {
	if !account.CardProductID.IsZero() {
		if product, err := s.catalogRepo.FindByID(ctx, account.CardProductID); err == nil {
			return product
		}
	}
	if account.CardProductSlug != "" {
		if product, err := s.catalogRepo.FindBySlug(ctx, account.CardProductSlug); err == nil {
			return product
		}
	}
	return nil
}

// UpdateCardInput carries the optional fields PATCH /cards/:id may change.
// Nil pointers mean "leave unchanged".
type UpdateCardInput struct {
	Nickname        *string
	CardProductID   *string
	CardProductSlug *string
	Status          *string
	AppliedAt       *time.Time
}

// Update applies a partial update to an owned card
func (s *CardService) Update(ctx context.Context, userID, cardID primitive.ObjectID, input UpdateCardInput) (*models.Account, error) {
	account, err := s.getOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Nickname != nil {
		account.Nickname = *input.Nickname
		fields["nickname"] = account.Nickname
	}
	if input.CardProductID != nil {
		raw := strings.TrimSpace(*input.CardProductID)
		if raw == "" {
			account.CardProductID = primitive.NilObjectID
			fields["card_product_id"] = nil
		} else {
			productID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: card_product_id must be a valid id", ErrValidation)
			}
			account.CardProductID = productID
			fields["card_product_id"] = productID
		}
	}
	if input.CardProductSlug != nil {
		account.CardProductSlug = *input.CardProductSlug
		fields["card_product_slug"] = account.CardProductSlug
	}
	if input.Status != nil {
		account.Status = *input.Status
		fields["status"] = account.Status
	}
	if input.AppliedAt != nil {
		account.AppliedAt = input.AppliedAt
		fields["applied_at"] = *input.AppliedAt
	}
	if len(fields) == 0 {
		return account, nil
	}
	if err := s.accountRepo.UpdateFields(ctx, account.ID, fields); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an owned card
func (s *CardService) Delete(ctx context.Context, userID, cardID primitive.ObjectID) error {
	account, err := s.getOwned(ctx, userID, cardID)
	if err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, account.ID)
}

// Claim reassigns an existing unowned card account to the user. Used by the
// demo import flow where seeded accounts are adopted into a profile.
func (s *CardService) Claim(ctx context.Context, userID, cardID primitive.ObjectID) error {
	account, err := s.accountRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: card", ErrNotFound)
		}
		return err
	}
	if account.AccountType != models.AccountTypeCreditCard {
		return fmt.Errorf("%w: card", ErrNotFound)
	}
	return s.accountRepo.UpdateFields(ctx, account.ID, map[string]interface{}{"userId": userID})
}
