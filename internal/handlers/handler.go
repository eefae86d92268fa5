// Package handlers contains the gin HTTP handlers. They parse and validate
// the wire format, delegate to services, and map sentinel errors to status
// codes; no business logic lives here.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/services"
)

// respondError maps service sentinel errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseCardIDs reads the repeatable cardIds query parameter, silently
// dropping malformed values.
func parseCardIDs(c *gin.Context) []primitive.ObjectID {
	raw := c.QueryArray("cardIds")
	if len(raw) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		if id, err := primitive.ObjectIDFromHex(value); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// parseBodyCardIDs converts hex account ids from a JSON body, silently
// dropping malformed values.
func parseBodyCardIDs(raw []string) []primitive.ObjectID {
	if len(raw) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		if id, err := primitive.ObjectIDFromHex(value); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
