package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/services"
)

// UserHandler handles profile and status HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func profileResponse(user *models.User) gin.H {
	return gin.H{
		"userId":      user.ID.Hex(),
		"email":       user.Email,
		"name":        user.Name,
		"preferences": user.Preferences,
	}
}

// GetMe handles GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, profileResponse(user))
}

// UpdateMe handles PATCH /me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var payload struct {
		Name        *string                `json:"name"`
		Preferences map[string]interface{} `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, services.ProfileUpdate{
		Name:        payload.Name,
		Preferences: payload.Preferences,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse(updated))
}

// GetStatus handles GET /status
func (h *UserHandler) GetStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	hasAccount, err := h.userService.HasAccount(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasAccount": hasAccount})
}

// ResendVerification handles POST /auth/resend-verification. Verification
// email delivery is owned by the identity provider, so this endpoint only
// acknowledges.
func (h *UserHandler) ResendVerification(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
