package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
	"github.com/swipecoach/backend/internal/rewards"
)

// RewardService estimates what specific cards would have earned on real or
// hypothetical spend.
type RewardService struct {
	spend       *SpendService
	catalogRepo repositories.CatalogRepository
}

// NewRewardService creates a new RewardService
func NewRewardService(spend *SpendService, catalogRepo repositories.CatalogRepository) *RewardService {
	return &RewardService{spend: spend, catalogRepo: catalogRepo}
}

// CardRef identifies a catalog card in estimate and compare responses.
type CardRef struct {
	Slug        string `json:"slug"`
	ProductName string `json:"product_name"`
	Issuer      string `json:"issuer"`
}

// RewardEstimate is the GET /rewards/estimate response.
type RewardEstimate struct {
	Card             CardRef          `json:"card"`
	WindowDays       int              `json:"windowDays"`
	Earnings         rewards.Earnings `json:"earnings"`
	ProjectedMonthly float64          `json:"projectedMonthly"`
}

// Estimate computes what one card would have earned on the user's actual
// spend in the window, plus a 30-day projection.
func (s *RewardService) Estimate(ctx context.Context, userID primitive.ObjectID, slug string, windowDays int) (*RewardEstimate, error) {
	card, err := s.catalogRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: card %q", ErrNotFound, slug)
		}
		return nil, err
	}

	txns, err := s.spend.LoadWindow(ctx, userID, windowDays, nil)
	if err != nil {
		return nil, err
	}
	items := sanitizeSpendItems(txns)
	earnings := rewards.MonthEarnings(*card, items)

	projected := earnings.Total
	if windowDays > 0 {
		projected = earnings.Total * rewards.DaysPerMonth / float64(windowDays)
	}
	return &RewardEstimate{
		Card: CardRef{
			Slug:        card.Slug,
			ProductName: card.ProductName,
			Issuer:      card.Issuer,
		},
		WindowDays:       windowDays,
		Earnings:         earnings,
		ProjectedMonthly: math.Round(projected*100) / 100,
	}, nil
}

// CardComparison is one card's result in the POST /rewards/compare response.
type CardComparison struct {
	Slug        string           `json:"slug"`
	ProductName string           `json:"product_name"`
	Issuer      string           `json:"issuer"`
	Earnings    rewards.Earnings `json:"earnings"`
}

// ComparisonResult is the POST /rewards/compare response.
type ComparisonResult struct {
	Mix     []rewards.SpendItem `json:"mix"`
	Results []CardComparison    `json:"results"`
}

// Compare runs a hypothetical monthly spend, given as category dollar amounts,
// through each named card. Unknown slugs are skipped; results sort by total
// earnings descending.
func (s *RewardService) Compare(ctx context.Context, mix map[string]float64, slugs []string) (*ComparisonResult, error) {
	items := make([]rewards.SpendItem, 0, len(mix))
	for category, amount := range mix {
		if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}
		items = append(items, rewards.SpendItem{Amount: amount, Category: category})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: mix must contain positive amounts", ErrValidation)
	}
	// Map iteration order is random; keep the echoed mix stable.
	sort.Slice(items, func(i, j int) bool { return items[i].Category < items[j].Category })

	results := make([]CardComparison, 0, len(slugs))
	for _, slug := range slugs {
		card, err := s.catalogRepo.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}
		results = append(results, CardComparison{
			Slug:        card.Slug,
			ProductName: card.ProductName,
			Issuer:      card.Issuer,
			Earnings:    rewards.MonthEarnings(*card, items),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Earnings.Total > results[j].Earnings.Total
	})
	return &ComparisonResult{Mix: items, Results: results}, nil
}

// sanitizeSpendItems folds refunds into positive spend by absolute value,
// bucketing missing categories as Uncategorized. Zero rows drop out.
func sanitizeSpendItems(txns []models.Transaction) []rewards.SpendItem {
	items := make([]rewards.SpendItem, 0, len(txns))
	for _, txn := range txns {
		amount := math.Abs(txn.Amount)
		if amount <= 0 {
			continue
		}
		category := txn.Category
		if category == "" {
			category = rewards.UncategorizedKey
		}
		items = append(items, rewards.SpendItem{Amount: amount, Category: category})
	}
	return items
}
