package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/internal/utils"
)

// RecurringHandler handles recurring charge HTTP requests
type RecurringHandler struct {
	recurringService *services.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *services.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// Groups handles GET /recurring
func (h *RecurringHandler) Groups(c *gin.Context) {
	user := middleware.CurrentUser(c)

	groups, err := h.recurringService.Groups(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// Upcoming handles GET /upcoming
func (h *RecurringHandler) Upcoming(c *gin.Context) {
	user := middleware.CurrentUser(c)

	upcoming, err := h.recurringService.Upcoming(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upcoming": upcoming})
}

// Scan handles POST /recurring/scan
func (h *RecurringHandler) Scan(c *gin.Context) {
	user := middleware.CurrentUser(c)

	detected, err := h.recurringService.Scan(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detected": len(detected), "groups": detected})
}

type relabelRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	MerchantName  string `json:"merchant_name" binding:"required"`
	CategoryL1    string `json:"category_l1"`
	CategoryL2    string `json:"category_l2"`
}

// Relabel handles POST /transactions/relabel
func (h *RecurringHandler) Relabel(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req relabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id and merchant_name are required"})
		return
	}

	txnID, err := utils.ParseObjectID(strings.TrimSpace(req.TransactionID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	result, err := h.recurringService.Relabel(c.Request.Context(), user.ID, services.RelabelInput{
		TransactionID: txnID,
		MerchantName:  req.MerchantName,
		CategoryL1:    req.CategoryL1,
		CategoryL2:    req.CategoryL2,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
