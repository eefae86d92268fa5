package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService authenticates the catalog admin and issues the short-lived
// HS256 tokens the admin routes require.
type AdminAuthService struct {
	email        string
	passwordHash string
	secret       []byte
	expiresIn    time.Duration
}

// NewAdminAuthService creates a new AdminAuthService
func NewAdminAuthService(email, passwordHash, secret string, expiresIn time.Duration) *AdminAuthService {
	return &AdminAuthService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		secret:       []byte(secret),
		expiresIn:    expiresIn,
	}
}

// Enabled reports whether admin credentials are configured
func (s *AdminAuthService) Enabled() bool {
	return s.email != "" && s.passwordHash != "" && len(s.secret) > 0
}

// Login checks the admin credentials and returns a signed token
func (s *AdminAuthService) Login(email, password string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("%w: admin login is not configured", ErrValidation)
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return "", fmt.Errorf("%w: invalid credentials", ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks an admin token's signature and expiry, returning the
// admin identity.
func (s *AdminAuthService) VerifyToken(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("%w: admin login is not configured", ErrValidation)
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if claims.Subject != s.email {
		return "", fmt.Errorf("%w: invalid token subject", ErrValidation)
	}
	return claims.Subject, nil
}
