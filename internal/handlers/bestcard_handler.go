package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
)

// BestCardHandler handles point-of-sale best card HTTP requests
type BestCardHandler struct {
	bestCardService *services.BestCardService
}

// NewBestCardHandler creates a new BestCardHandler
func NewBestCardHandler(bestCardService *services.BestCardService) *BestCardHandler {
	return &BestCardHandler{bestCardService: bestCardService}
}

type bestCardRequest struct {
	Merchant string  `json:"merchant"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Best handles POST /cards/best
func (h *BestCardHandler) Best(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req bestCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Merchant) == "" && strings.TrimSpace(req.Category) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant or category is required"})
		return
	}

	result, err := h.bestCardService.Best(c.Request.Context(), user.ID, req.Merchant, req.Category, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
