package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
)

// UserService resolves profiles from identity-token claims
type UserService struct {
	userRepo    repositories.UserRepository
	accountRepo repositories.AccountRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, accountRepo repositories.AccountRepository) *UserService {
	return &UserService{userRepo: userRepo, accountRepo: accountRepo}
}

// GetOrCreate resolves the profile for a verified token, creating it on first
// sight and syncing email, name, and verification state on later requests. A
// create race against a concurrent request resolves by re-reading.
func (s *UserService) GetOrCreate(ctx context.Context, claims *models.TokenClaims) (*models.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token missing subject", ErrValidation)
	}

	name := claims.Name
	if name == "" && strings.Contains(claims.Email, "@") {
		name = strings.SplitN(claims.Email, "@", 2)[0]
	}

	user, err := s.userRepo.FindByAuthID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		user = &models.User{
			AuthID:        claims.Subject,
			Email:         claims.Email,
			Name:          name,
			EmailVerified: claims.EmailVerified,
			Preferences:   models.DefaultPreferences(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return s.userRepo.FindByAuthID(ctx, claims.Subject)
			}
			return nil, err
		}
		return user, nil
	}

	updates := map[string]interface{}{}
	if claims.Email != "" && user.Email != claims.Email {
		updates["email"] = claims.Email
		user.Email = claims.Email
	}
	if name != "" && user.Name != name {
		updates["name"] = name
		user.Name = name
	}
	if user.EmailVerified != claims.EmailVerified {
		updates["email_verified"] = claims.EmailVerified
		user.EmailVerified = claims.EmailVerified
	}
	if len(updates) > 0 {
		if err := s.userRepo.UpdateFields(ctx, user.ID, updates); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ProfileUpdate carries the fields PATCH /me may change.
type ProfileUpdate struct {
	Name        *string
	Preferences map[string]interface{}
}

// UpdateProfile applies a partial profile update and returns the result.
// Preference updates merge into the existing set; unknown keys are dropped.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, update ProfileUpdate) (*models.User, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		user.Name = *update.Name
		fields["name"] = user.Name
	}
	if update.Preferences != nil {
		user.Preferences = user.Preferences.Merge(update.Preferences)
		fields["preferences"] = user.Preferences
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, err
	}
	return user, nil
}

// HasAccount reports whether the user has at least one linked credit card
func (s *UserService) HasAccount(ctx context.Context, user *models.User) (bool, error) {
	count, err := s.accountRepo.CountCreditCardsByUser(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
