package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/config"
	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
)

// RecommendationHandler handles card recommendation HTTP requests
type RecommendationHandler struct {
	recommendationService *services.RecommendationService
	scoring               config.ScoringConfig
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(recommendationService *services.RecommendationService, scoring config.ScoringConfig) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, scoring: scoring}
}

type recommendationRequest struct {
	Window         int                `json:"window"`
	Limit          *int               `json:"limit"`
	IncludeExplain *bool              `json:"include_explain"`
	MonthlySpend   *float64           `json:"monthly_spend"`
	CategoryMix    map[string]float64 `json:"category_mix"`
	CardIDs        []string           `json:"cardIds"`
}

// Recommend handles POST /recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	user := middleware.CurrentUser(c)

	// A missing body means "use the defaults", same as an empty object.
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	// An omitted or zero window falls back to the configured default;
	// a negative window is rejected.
	window := req.Window
	if window == 0 {
		window = h.scoring.DefaultWindowDays
	}
	if window <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window must be positive"})
		return
	}
	limit := h.scoring.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	includeExplain := true
	if req.IncludeExplain != nil {
		includeExplain = *req.IncludeExplain
	}

	result, err := h.recommendationService.Recommend(c.Request.Context(), user.ID, services.RecommendationRequest{
		WindowDays:     window,
		Limit:          limit,
		IncludeExplain: includeExplain,
		MonthlySpend:   req.MonthlySpend,
		CategoryMix:    req.CategoryMix,
		AccountIDs:     parseBodyCardIDs(req.CardIDs),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
