package service

import (
	"github.com/google/uuid"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// AuthenticateUser handles the flow after the identity provider callback.
// First login provisions an advisor account; returning users get their
// last-seen timestamp touched.
func (s *AuthService) AuthenticateUser(auth0ID, email string, name *string) (*domain.User, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	if err := s.userRepo.TouchLastSeen(auth0ID); err != nil {
		// Non-fatal; the session proceeds without the timestamp
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update last-seen timestamp")
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("User authenticated")
	return user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// UpdateName updates the display name of the user identified by auth0ID
func (s *AuthService) UpdateName(auth0ID, name string) (*domain.User, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.userRepo.UpdateName(auth0ID, name)
}

// RequireAdmin returns ErrForbidden unless the user has the admin role
func (s *AuthService) RequireAdmin(user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
