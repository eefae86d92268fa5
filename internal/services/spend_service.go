package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
	"github.com/swipecoach/backend/internal/rewards"
)

// SpendService loads transaction windows and turns them into spend summaries,
// mixes, and money moments.
type SpendService struct {
	txnRepo      repositories.TransactionRepository
	accountRepo  repositories.AccountRepository
	merchantRepo repositories.MerchantRepository
	logger       *slog.Logger
}

// NewSpendService creates a new SpendService
func NewSpendService(
	txnRepo repositories.TransactionRepository,
	accountRepo repositories.AccountRepository,
	merchantRepo repositories.MerchantRepository,
	logger *slog.Logger,
) *SpendService {
	return &SpendService{
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		merchantRepo: merchantRepo,
		logger:       logger,
	}
}

// LoadWindow returns a user's transactions for the trailing window, optionally
// restricted to specific accounts.
func (s *SpendService) LoadWindow(ctx context.Context, userID primitive.ObjectID, windowDays int, accountIDs []primitive.ObjectID) ([]models.Transaction, error) {
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	return s.txnRepo.FindByUserSince(ctx, userID, since, accountIDs)
}

// categoryRules loads and compiles the merchant category mappings. A load
// failure degrades to no rules rather than failing the request.
func (s *SpendService) categoryRules(ctx context.Context) []rewards.CategoryRule {
	mappings, err := s.merchantRepo.FindCategoryRules(ctx)
	if err != nil {
		s.logger.Warn("loading merchant category rules failed", "error", err)
		return nil
	}
	return rewards.CompileCategoryRules(mappings)
}

// SummaryStats is the headline block of the spend summary response.
type SummaryStats struct {
	TotalSpend float64 `json:"totalSpend"`
	Txns       int     `json:"txns"`
	Accounts   int64   `json:"accounts"`
}

// CategoryTotal is a category row of the spend summary response.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// SpendSummary is the GET /spend/summary response.
type SpendSummary struct {
	Stats      SummaryStats    `json:"stats"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

// Summary computes headline stats and per-category totals for a window
func (s *SpendService) Summary(ctx context.Context, userID primitive.ObjectID, windowDays int, accountIDs []primitive.ObjectID) (*SpendSummary, error) {
	txns, err := s.LoadWindow(ctx, userID, windowDays, accountIDs)
	if err != nil {
		return nil, err
	}
	breakdown := rewards.Aggregate(txns, s.categoryRules(ctx))

	accounts, err := s.accountRepo.CountCreditCardsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories := make([]CategoryTotal, 0, len(breakdown.Categories))
	for _, row := range breakdown.Categories {
		categories = append(categories, CategoryTotal{Name: row.Key, Total: row.Amount})
	}
	return &SpendSummary{
		Stats: SummaryStats{
			TotalSpend: breakdown.Total,
			Txns:       breakdown.TransactionCount,
			Accounts:   accounts,
		},
		ByCategory: categories,
	}, nil
}

// SpendDetails is the GET /spend/details response.
type SpendDetails struct {
	WindowDays       int                   `json:"windowDays"`
	Total            float64               `json:"total"`
	TransactionCount int                   `json:"transactionCount"`
	Categories       []rewards.CategoryRow `json:"categories"`
	Merchants        []rewards.MerchantRow `json:"merchants"`
}

// Details computes the full category and merchant breakdown for a window
func (s *SpendService) Details(ctx context.Context, userID primitive.ObjectID, windowDays int, accountIDs []primitive.ObjectID) (*SpendDetails, error) {
	txns, err := s.LoadWindow(ctx, userID, windowDays, accountIDs)
	if err != nil {
		return nil, err
	}
	breakdown := rewards.Aggregate(txns, s.categoryRules(ctx))
	return &SpendDetails{
		WindowDays:       windowDays,
		Total:            breakdown.Total,
		TransactionCount: breakdown.TransactionCount,
		Categories:       breakdown.Categories,
		Merchants:        breakdown.Merchants,
	}, nil
}

// MerchantRow is one merchant in the GET /merchants response.
type MerchantRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
	LogoURL  string  `json:"logoUrl"`
}

// TopMerchants returns the highest-spend merchants in a window
func (s *SpendService) TopMerchants(ctx context.Context, userID primitive.ObjectID, windowDays, limit int, accountIDs []primitive.ObjectID) ([]MerchantRow, error) {
	txns, err := s.LoadWindow(ctx, userID, windowDays, accountIDs)
	if err != nil {
		return nil, err
	}
	breakdown := rewards.Aggregate(txns, s.categoryRules(ctx))

	rows := breakdown.Merchants
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]MerchantRow, 0, len(rows))
	for _, m := range rows {
		out = append(out, MerchantRow{
			ID:       m.Name,
			Name:     m.Name,
			Category: m.Category,
			Count:    m.Count,
			Total:    m.Amount,
			LogoURL:  m.LogoURL,
		})
	}
	return out, nil
}

// Mix computes the normalized category mix and window total for a user
func (s *SpendService) Mix(ctx context.Context, userID primitive.ObjectID, windowDays int, accountIDs []primitive.ObjectID) (rewards.Mix, float64, []models.Transaction, error) {
	txns, err := s.LoadWindow(ctx, userID, windowDays, accountIDs)
	if err != nil {
		return nil, 0, nil, err
	}
	summary := rewards.Aggregate(txns, s.categoryRules(ctx))
	return rewards.MixFromSummary(summary), summary.Total, txns, nil
}

// MoneyMoments derives short narrative observations from a spend window
func (s *SpendService) MoneyMoments(ctx context.Context, userID primitive.ObjectID, windowDays int, accountIDs []primitive.ObjectID) ([]rewards.Moment, error) {
	txns, err := s.LoadWindow(ctx, userID, windowDays, accountIDs)
	if err != nil {
		return nil, err
	}
	return rewards.MoneyMoments(windowDays, txns), nil
}
