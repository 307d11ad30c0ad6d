package repositories

import (
	"errors"
	"fmt"
	"time"

	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepositoryInterface {
	return &refreshTokenRepository{db: db}
}

// Create stores a new refresh token
func (r *refreshTokenRepository) Create(token *models.RefreshToken) error {
	if token == nil {
		return errors.New("refresh token cannot be nil")
	}

	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves a refresh token by its hash
func (r *refreshTokenRepository) GetByTokenHash(tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token by hash: %w", err)
	}
	return &token, nil
}

// GetActiveByUserID retrieves all live refresh tokens for a user
func (r *refreshTokenRepository) GetActiveByUserID(userID uuid.UUID) ([]*models.RefreshToken, error) {
	var tokens []*models.RefreshToken
	err := r.db.
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active tokens for user: %w", err)
	}
	return tokens, nil
}

// Update saves a refresh token model
func (r *refreshTokenRepository) Update(token *models.RefreshToken) error {
	if token == nil {
		return errors.New("refresh token cannot be nil")
	}

	if err := r.db.Save(token).Error; err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// revokeLive stamps revoked_at on all live tokens matching the condition
// and returns the number of tokens revoked.
func (r *refreshTokenRepository) revokeLive(condition string, args ...interface{}) (int64, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("revoked_at IS NULL").
		Where(condition, args...).
		Update("revoked_at", time.Now())
	return result.RowsAffected, result.Error
}

// Revoke marks a single refresh token as revoked
func (r *refreshTokenRepository) Revoke(tokenID uuid.UUID) error {
	revoked, err := r.revokeLive("id = ?", tokenID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if revoked == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

// RevokeAllForUser revokes every live refresh token of one user
func (r *refreshTokenRepository) RevokeAllForUser(userID uuid.UUID) error {
	if _, err := r.revokeLive("user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to revoke all tokens for user: %w", err)
	}
	return nil
}

// DeleteExpired removes expired refresh tokens
func (r *refreshTokenRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteRevokedOlderThan removes revoked tokens past the retention window
func (r *refreshTokenRepository) DeleteRevokedOlderThan(duration time.Duration) (int64, error) {
	cutoff := time.Now().Add(-duration)
	result := r.db.
		Where("revoked_at IS NOT NULL AND revoked_at < ?", cutoff).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old revoked tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
