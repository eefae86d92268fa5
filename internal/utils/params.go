package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	minWindowDays = 1
	maxWindowDays = 365
)

// ParseWindowDays reads an optional analysis window from the query string.
// Both ?window= and ?windowDays= are accepted; the value is clamped to
// [1, 365] and falls back to defaultDays when absent or unparsable.
func ParseWindowDays(c *gin.Context, defaultDays int) int {
	raw := c.Query("window")
	if raw == "" {
		raw = c.Query("windowDays")
	}
	if raw == "" {
		return defaultDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return defaultDays
	}
	if days < minWindowDays {
		return minWindowDays
	}
	if days > maxWindowDays {
		return maxWindowDays
	}
	return days
}

// ParseObjectID validates and converts a path or body value to an ObjectID
func ParseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q", raw)
	}
	return id, nil
}
