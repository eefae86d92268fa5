// Package services holds the business logic between the HTTP handlers and the
// repositories. Services return plain structs and sentinel errors; handlers
// translate those into status codes.
package services

import "errors"

// Sentinel errors handlers map to HTTP status codes.
var (
	// ErrNotFound means a referenced entity does not exist or is not visible
	// to the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the request payload failed a business rule.
	ErrValidation = errors.New("validation failed")
)
