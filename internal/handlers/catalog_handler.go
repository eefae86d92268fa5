package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/services"
)

// CatalogHandler handles card catalog HTTP requests
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles GET /cards/catalog. An optional active filter accepts
// 1/true/yes or 0/false/no.
func (h *CatalogHandler) List(c *gin.Context) {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		switch strings.ToLower(raw) {
		case "1", "true", "yes":
			v := true
			active = &v
		case "0", "false", "no":
			v := false
			active = &v
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "active must be a boolean"})
			return
		}
	}

	products, err := h.catalogService.List(c.Request.Context(), active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": products})
}

// Create handles POST /cards/catalog. The body may be a single card
// product or an array of products.
func (h *CatalogHandler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read body"})
		return
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var products []*models.CardProduct
		if err := json.Unmarshal(raw, &products); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		created, err := h.catalogService.CreateMany(c.Request.Context(), products)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": len(created), "cards": created})
		return
	}

	var product models.CardProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	created, err := h.catalogService.Create(c.Request.Context(), &product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
