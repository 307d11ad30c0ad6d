package repositories

import (
	"errors"
	"fmt"
	"strings"

	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	if err := r.db.Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID, including soft-deleted members.
func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	return r.firstUser(r.db.Unscoped(), "id = ?", id)
}

// GetByIDActive retrieves a user by ID, excluding soft-deleted members.
func (r *userRepository) GetByIDActive(id uuid.UUID) (*models.User, error) {
	return r.firstUser(r.db, "id = ?", id)
}

// GetByEmail retrieves an active user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.firstUser(r.db, "email = ?", email)
}

// firstUser runs a single-row user lookup, translating a missing row into
// ErrUserNotFound.
func (r *userRepository) firstUser(tx *gorm.DB, condition string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := tx.Where(condition, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Update saves a full user model
func (r *userRepository) Update(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to a user
func (r *userRepository) UpdateFields(userID uuid.UUID, fields map[string]interface{}) error {
	result := r.db.Model(&models.User{ID: userID}).Updates(fields)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePasswordHash atomically updates a user's password hash
func (r *userRepository) UpdatePasswordHash(userID uuid.UUID, passwordHash string) error {
	if userID == uuid.Nil {
		return errors.New("user ID cannot be nil")
	}
	if passwordHash == "" {
		return errors.New("password hash cannot be empty")
	}

	result := r.db.Model(&models.User{ID: userID}).Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateFailedLoginAttempts persists the failed login counter and lock state
func (r *userRepository) UpdateFailedLoginAttempts(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	err := r.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_at":             user.LockedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update login attempts: %w", err)
	}
	return nil
}

// ResetFailedLoginAttempts clears the failed login counter for a user
func (r *userRepository) ResetFailedLoginAttempts(userID uuid.UUID) error {
	err := r.db.Model(&models.User{ID: userID}).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_at":             nil,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

// ListUsers lists household members with pagination
func (r *userRepository) ListUsers(offset, limit int) ([]*models.User, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	err := r.db.Order("display_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Postgres and sqlite phrase unique violations differently
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}
