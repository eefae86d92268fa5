package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/internal/utils"
)

// CardHandler handles linked-card HTTP requests
type CardHandler struct {
	cardService *services.CardService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService *services.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// List handles GET /cards
func (h *CardHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cards, err := h.cardService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

type addCardRequest struct {
	Nickname        string `json:"nickname"`
	Issuer          string `json:"issuer" binding:"required"`
	Network         string `json:"network" binding:"required"`
	Mask            string `json:"mask" binding:"required"`
	ExpiryMonth     int    `json:"expiry_month"`
	ExpiryYear      int    `json:"expiry_year"`
	CardProductID   string `json:"card_product_id"`
	CardProductSlug string `json:"card_product_slug"`
	Status          string `json:"status"`
}

// Add handles POST /cards
func (h *CardHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.Add(c.Request.Context(), user.ID, services.AddCardInput{
		Nickname:        req.Nickname,
		Issuer:          req.Issuer,
		Network:         req.Network,
		Mask:            req.Mask,
		ExpiryMonth:     req.ExpiryMonth,
		ExpiryYear:      req.ExpiryYear,
		CardProductID:   req.CardProductID,
		CardProductSlug: req.CardProductSlug,
		Status:          req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// Get handles GET /cards/:id
func (h *CardHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cardID, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	detail, err := h.cardService.Get(c.Request.Context(), user.ID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateCardRequest struct {
	Nickname        *string `json:"nickname"`
	CardProductID   *string `json:"card_product_id"`
	CardProductSlug *string `json:"card_product_slug"`
	Status          *string `json:"status"`
}

// Update handles PATCH /cards/:id
func (h *CardHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cardID, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	var req updateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.Update(c.Request.Context(), user.ID, cardID, services.UpdateCardInput{
		Nickname:        req.Nickname,
		CardProductID:   req.CardProductID,
		CardProductSlug: req.CardProductSlug,
		Status:          req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Delete handles DELETE /cards/:id
func (h *CardHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cardID, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	if err := h.cardService.Delete(c.Request.Context(), user.ID, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type importCardRequest struct {
	CardID string `json:"card_id" binding:"required"`
}

// Import handles POST /cards/import. Demo accounts seeded under a
// placeholder owner are reassigned to the caller.
func (h *CardHandler) Import(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req importCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_id is required"})
		return
	}
	cardID, err := utils.ParseObjectID(req.CardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	if err := h.cardService.Claim(c.Request.Context(), user.ID, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": true})
}
