// Package auth verifies bearer tokens issued by the identity provider. Tokens
// are RS256 JWTs validated against the tenant's JWKS document, which is cached
// with a TTL so the provider is not hit on every request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swipecoach/backend/internal/models"
)

// ErrUnauthorized wraps every verification failure so callers can map any of
// them to a 401 without inspecting the cause.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier validates RS256 bearer tokens for one tenant
type Verifier struct {
	issuer   string
	audience string
	jwks     *JWKSCache
}

// NewVerifier creates a Verifier backed by the given JWKS cache
func NewVerifier(issuer, audience string, jwks *JWKSCache) *Verifier {
	return &Verifier{
		issuer:   issuer,
		audience: audience,
		jwks:     jwks,
	}
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}

// Verify checks the token's signature, issuer, audience, and expiry, and
// returns the identity claims the backend consumes.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token missing kid header")
		}
		return v.jwks.Key(ctx, kid)
	}

	var claims idTokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token missing subject", ErrUnauthorized)
	}

	return &models.TokenClaims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
	}, nil
}
