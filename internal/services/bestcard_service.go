package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/repositories"
	"github.com/swipecoach/backend/internal/rewards"
)

// BestCardService answers "which card should I swipe for this purchase".
type BestCardService struct {
	spend       *SpendService
	catalogRepo repositories.CatalogRepository
	accountRepo repositories.AccountRepository
}

// NewBestCardService creates a new BestCardService
func NewBestCardService(
	spend *SpendService,
	catalogRepo repositories.CatalogRepository,
	accountRepo repositories.AccountRepository,
) *BestCardService {
	return &BestCardService{
		spend:       spend,
		catalogRepo: catalogRepo,
		accountRepo: accountRepo,
	}
}

// BestCardQuery echoes the purchase being asked about.
type BestCardQuery struct {
	Merchant string  `json:"merchant"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// BestCardResult is the POST /cards/best response.
type BestCardResult struct {
	Type       string                      `json:"type"`
	Query      BestCardQuery               `json:"query"`
	Candidates []rewards.PurchaseCandidate `json:"candidates"`
}

const maxBestCandidates = 5

// Best ranks the active catalog for a single purchase. Month-to-date spend on
// the user's linked cards counts against category caps, so a card whose
// grocery cap is nearly exhausted ranks by its blended rate, not its headline
// rate.
func (s *BestCardService) Best(ctx context.Context, userID primitive.ObjectID, merchant, category string, amount float64) (*BestCardResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}

	catalog, err := s.catalogRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	usage, err := s.monthToDateUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := rewards.BestCards(catalog, usage, merchant, category, amount)
	if len(candidates) > maxBestCandidates {
		candidates = candidates[:maxBestCandidates]
	}
	return &BestCardResult{
		Type:       "best_card.result",
		Query:      BestCardQuery{Merchant: merchant, Category: category, Amount: amount},
		Candidates: candidates,
	}, nil
}

// monthToDateUsage sums this calendar month's spend per linked card product
// and category. Accounts without a catalog product contribute nothing.
func (s *BestCardService) monthToDateUsage(ctx context.Context, userID primitive.ObjectID) (rewards.CategoryUsage, error) {
	accounts, err := s.accountRepo.FindCreditCardsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	slugByAccount := make(map[primitive.ObjectID]string, len(accounts))
	for _, account := range accounts {
		if account.CardProductSlug != "" {
			slugByAccount[account.ID] = account.CardProductSlug
		}
	}
	if len(slugByAccount) == 0 {
		return rewards.CategoryUsage{}, nil
	}

	now := time.Now().UTC()
	daysIntoMonth := now.Day()
	txns, err := s.spend.LoadWindow(ctx, userID, daysIntoMonth, nil)
	if err != nil {
		return nil, err
	}

	usage := rewards.CategoryUsage{}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, txn := range txns {
		if txn.Amount <= 0 || txn.PostedAt.Before(monthStart) {
			continue
		}
		slug, ok := slugByAccount[txn.AccountID]
		if !ok {
			continue
		}
		category := txn.Category
		if category == "" {
			category = rewards.UncategorizedKey
		}
		if usage[slug] == nil {
			usage[slug] = map[string]float64{}
		}
		usage[slug][category] += txn.Amount
	}
	return usage, nil
}
