package repositories

import (
	"time"

	"grocerylist-api/internal/models"

	"github.com/google/uuid"
)

// KeywordRepositoryInterface defines the contract for the learned keyword store
type KeywordRepositoryInterface interface {
	// Create inserts a keyword association. An existing (keyword, category)
	// pair is not an error: the insert is issued with conflict-ignore
	// semantics and ErrDuplicateKeyword is returned so callers can treat it
	// as a no-op.
	Create(assoc *models.KeywordAssociation) error
	// FindExact returns the category of the oldest row whose keyword equals
	// the given keyword. Returns ErrKeywordNotFound when absent.
	FindExact(keyword string) (models.Category, error)
	// FindAll returns every association ordered longest keyword first (ties
	// broken alphabetically) so substring scans are deterministic.
	FindAll() ([]models.KeywordAssociation, error)
	ExistsPair(keyword string, categoryID models.Category) (bool, error)
	ListByCategory(categoryID models.Category, offset, limit int) ([]models.KeywordAssociation, int64, error)
	CountAll() (int64, error)
}

// ItemRepositoryInterface defines the contract for shared list item operations
type ItemRepositoryInterface interface {
	Create(item *models.GroceryItem) error
	GetByID(id uuid.UUID) (*models.GroceryItem, error)
	GetAll(includeCompleted bool) ([]models.GroceryItem, error)
	GetByCategory(categoryID models.Category) ([]models.GroceryItem, error)
	GetUncategorized() ([]models.GroceryItem, error)
	Update(item *models.GroceryItem) error
	UpdateFields(itemID uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error
	GetCategorySummary() ([]models.CategorySummary, error)
	CountOpen() (int64, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByIDActive(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(userID uuid.UUID, fields map[string]interface{}) error
	UpdatePasswordHash(userID uuid.UUID, passwordHash string) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
	ListUsers(offset, limit int) ([]*models.User, int64, error)
}

type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	GetActiveByUserID(userID uuid.UUID) ([]*models.RefreshToken, error)
	Update(token *models.RefreshToken) error
	Revoke(tokenID uuid.UUID) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
	DeleteRevokedOlderThan(duration time.Duration) (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for revoked access token lookups
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	IsBlacklisted(jti string) (bool, error)
	DeleteExpired() (int64, error)
}
