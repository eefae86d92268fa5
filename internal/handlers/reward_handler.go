package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/internal/utils"
)

// RewardHandler handles reward estimate and comparison HTTP requests
type RewardHandler struct {
	rewardService *services.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// Estimate handles GET /rewards/estimate
func (h *RewardHandler) Estimate(c *gin.Context) {
	user := middleware.CurrentUser(c)

	slug := strings.TrimSpace(c.Query("cardSlug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardSlug is required"})
		return
	}
	windowDays := utils.ParseWindowDays(c, 30)

	estimate, err := h.rewardService.Estimate(c.Request.Context(), user.ID, slug, windowDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

type compareRequest struct {
	Mix   map[string]float64 `json:"mix" binding:"required"`
	Cards []string           `json:"cards" binding:"required"`
}

// Compare handles POST /rewards/compare
func (h *RewardHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mix and cards are required"})
		return
	}

	result, err := h.rewardService.Compare(c.Request.Context(), req.Mix, req.Cards)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
