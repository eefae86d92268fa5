package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
)

// InsightHandler handles spending insight HTTP requests
type InsightHandler struct {
	insightService *services.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// Overspend handles GET /insights/overspend
func (h *InsightHandler) Overspend(c *gin.Context) {
	user := middleware.CurrentUser(c)

	summary, err := h.insightService.Overspend(c.Request.Context(), user.ID, c.Query("window"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Delta handles GET /insights/delta, comparing the current window to
// the one before it.
func (h *InsightHandler) Delta(c *gin.Context) {
	user := middleware.CurrentUser(c)

	comparison, err := h.insightService.Compare(c.Request.Context(), user.ID, c.Query("window"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// Subscriptions handles GET /insights/subscriptions
func (h *InsightHandler) Subscriptions(c *gin.Context) {
	user := middleware.CurrentUser(c)

	report, err := h.insightService.Subscriptions(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CategoryDeepDive handles GET /insights/category
func (h *InsightHandler) CategoryDeepDive(c *gin.Context) {
	user := middleware.CurrentUser(c)

	category := strings.TrimSpace(c.Query("name"))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	deepDive, err := h.insightService.DeepDive(c.Request.Context(), user.ID, category, c.Query("window"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deepDive)
}
