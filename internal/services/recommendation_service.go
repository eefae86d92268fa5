package services

import (
	"context"
	"log/slog"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/repositories"
	"github.com/swipecoach/backend/internal/rewards"
	"github.com/swipecoach/backend/pkg/llm"
)

// RecommendationService ranks the card catalog against a user's spend mix.
type RecommendationService struct {
	spend       *SpendService
	catalogRepo repositories.CatalogRepository
	llm         *llm.Client
	fallback    float64
	logger      *slog.Logger
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(
	spend *SpendService,
	catalogRepo repositories.CatalogRepository,
	llmClient *llm.Client,
	fallbackMonthlySpend float64,
	logger *slog.Logger,
) *RecommendationService {
	if fallbackMonthlySpend <= 0 {
		fallbackMonthlySpend = rewards.DefaultFallbackMonthlySpend
	}
	return &RecommendationService{
		spend:       spend,
		catalogRepo: catalogRepo,
		llm:         llmClient,
		fallback:    fallbackMonthlySpend,
		logger:      logger,
	}
}

// RecommendationRequest carries the optional overrides of POST /recommendations.
type RecommendationRequest struct {
	WindowDays     int
	Limit          int
	IncludeExplain bool
	MonthlySpend   *float64
	CategoryMix    map[string]float64
	AccountIDs     []primitive.ObjectID
}

// RecommendationResult is the POST /recommendations response.
type RecommendationResult struct {
	Mix          rewards.Mix          `json:"mix"`
	MonthlySpend float64              `json:"monthly_spend"`
	WindowDays   int                  `json:"windowDays"`
	Cards        []rewards.ScoredCard `json:"cards"`
	Explanation  string               `json:"explanation"`
}

// Recommend computes the ranked catalog for a user. An explicit category mix
// in the request replaces the observed one; an explicit monthly spend replaces
// the projection. With no mix or no spend the ranking short-circuits to empty.
func (s *RecommendationService) Recommend(ctx context.Context, userID primitive.ObjectID, req RecommendationRequest) (*RecommendationResult, error) {
	observedMix, windowTotal, _, err := s.spend.Mix(ctx, userID, req.WindowDays, req.AccountIDs)
	if err != nil {
		return nil, err
	}

	mix := observedMix
	if len(req.CategoryMix) > 0 {
		if normalized, _ := rewards.NormalizeMix(req.CategoryMix); len(normalized) > 0 {
			mix = normalized
		}
	}

	var monthlyTotal float64
	if req.MonthlySpend != nil {
		monthlyTotal = math.Max(*req.MonthlySpend, 0)
	} else {
		monthlyTotal = rewards.ProjectMonthly(windowTotal, req.WindowDays, mix, s.fallback)
	}

	result := &RecommendationResult{
		Mix:          mix,
		MonthlySpend: round2(monthlyTotal),
		WindowDays:   req.WindowDays,
		Cards:        []rewards.ScoredCard{},
	}
	if len(mix) == 0 || monthlyTotal <= 0 {
		return result, nil
	}

	catalog, err := s.catalogRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return result, nil
	}

	scored, err := rewards.RankCatalog(catalog, mix, monthlyTotal, req.WindowDays, req.Limit)
	if err != nil {
		// A malformed catalog entry is skipped, not fatal.
		s.logger.Warn("skipped unscorable catalog entries", "error", err)
	}
	result.Cards = scored

	if req.IncludeExplain && len(scored) > 0 {
		names := make([]string, 0, 3)
		for _, card := range scored {
			if card.ProductName != "" {
				names = append(names, card.ProductName)
			}
			if len(names) == 3 {
				break
			}
		}
		result.Explanation = s.llm.ExplainRecommendations(ctx, mix, names)
	}
	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
