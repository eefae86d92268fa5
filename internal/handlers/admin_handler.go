package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/services"
)

// AdminHandler handles admin authentication HTTP requests
type AdminHandler struct {
	adminAuth *services.AdminAuthService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminAuth *services.AdminAuthService) *AdminHandler {
	return &AdminHandler{adminAuth: adminAuth}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	if !h.adminAuth.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin login is not configured"})
		return
	}

	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, err := h.adminAuth.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
