package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/internal/utils"
)

const defaultMerchantLimit = 8

// SpendHandler handles spend summary and merchant HTTP requests
type SpendHandler struct {
	spendService *services.SpendService
}

// NewSpendHandler creates a new SpendHandler
func NewSpendHandler(spendService *services.SpendService) *SpendHandler {
	return &SpendHandler{spendService: spendService}
}

// Summary handles GET /spend/summary
func (h *SpendHandler) Summary(c *gin.Context) {
	user := middleware.CurrentUser(c)
	windowDays := utils.ParseWindowDays(c, 30)

	summary, err := h.spendService.Summary(c.Request.Context(), user.ID, windowDays, parseCardIDs(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Details handles GET /spend/details
func (h *SpendHandler) Details(c *gin.Context) {
	user := middleware.CurrentUser(c)
	windowDays := utils.ParseWindowDays(c, 30)

	details, err := h.spendService.Details(c.Request.Context(), user.ID, windowDays, parseCardIDs(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Merchants handles GET /merchants
func (h *SpendHandler) Merchants(c *gin.Context) {
	user := middleware.CurrentUser(c)
	windowDays := utils.ParseWindowDays(c, 30)

	limit := defaultMerchantLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	merchants, err := h.spendService.TopMerchants(c.Request.Context(), user.ID, windowDays, limit, parseCardIDs(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, merchants)
}

// MoneyMoments handles GET /money-moments
func (h *SpendHandler) MoneyMoments(c *gin.Context) {
	user := middleware.CurrentUser(c)
	windowDays := utils.ParseWindowDays(c, 30)

	moments, err := h.spendService.MoneyMoments(c.Request.Context(), user.ID, windowDays, parseCardIDs(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moments)
}
