package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/internal/utils"
)

// ApplicationHandler handles card application HTTP requests
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

type startApplicationRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// Start handles POST /applications
func (h *ApplicationHandler) Start(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req startApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}

	result, err := h.applicationService.Start(c.Request.Context(), user.ID, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

type approveApplicationRequest struct {
	ApplicationID string `json:"application_id" binding:"required"`
}

// Approve handles POST /applications/approve
func (h *ApplicationHandler) Approve(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req approveApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "application_id is required"})
		return
	}

	applicationID, err := utils.ParseObjectID(req.ApplicationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}

	if err := h.applicationService.Approve(c.Request.Context(), user.ID, applicationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}
