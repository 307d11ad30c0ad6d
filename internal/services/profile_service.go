package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"grocerylist-api/internal/models"
	"grocerylist-api/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrDisplayNameTooLong  = fmt.Errorf("display name must not exceed %d characters", models.MaxDisplayNameLength)
)

// ProfileService handles household member profile operations
type ProfileService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *slog.Logger
}

func NewProfileService(userRepo repositories.UserRepositoryInterface, logger *slog.Logger) ProfileServiceInterface {
	return &ProfileService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the profile of a single household member
func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByIDActive(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListMembers returns every member of the household. The list is small,
// so pagination is applied with a generous fixed page.
func (s *ProfileService) ListMembers() ([]*models.User, error) {
	users, _, err := s.userRepo.ListUsers(0, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return users, nil
}

// UpdateDisplayName changes how a member appears to the rest of the household
func (s *ProfileService) UpdateDisplayName(userID uuid.UUID, displayName string) error {
	if userID == uuid.Nil {
		return ErrInvalidUserID
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return ErrDisplayNameRequired
	}

	if len(displayName) > models.MaxDisplayNameLength {
		return ErrDisplayNameTooLong
	}

	if _, err := s.userRepo.GetByIDActive(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"display_name": displayName,
	}); err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}

	s.logger.Info("display name updated", "user_id", userID, "display_name", displayName)

	return nil
}
