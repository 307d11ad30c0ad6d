package services

import (
	"context"
	"time"

	"grocerylist-api/internal/dto"
	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryServiceInterface defines the interface for item categorization operations
type CategoryServiceInterface interface {
	// CategorizeItem determines the category for an item name using learned
	// keywords first, then the built-in keyword table
	CategorizeItem(itemName string) *models.CategorizationResult

	// LearnKeyword stores a keyword to category association for future lookups
	LearnKeyword(keyword string, category models.Category, learnedBy *uuid.UUID) error

	// LearnItemCategorization learns the full item name plus each significant
	// word of it. Storage failures are logged, never returned.
	LearnItemCategorization(itemName string, category models.Category, learnedBy *uuid.UUID)

	// StartLearning runs the background promotion loop until ctx is cancelled
	StartLearning(ctx context.Context)

	// QueueDepth reports how many learning requests are waiting
	QueueDepth() int

	// ListCategories returns all category definitions in shopping aisle order
	ListCategories() []models.CategoryDefinition

	// ListKeywords returns learned keyword associations, optionally filtered by category
	ListKeywords(category models.Category, offset, limit int) ([]models.KeywordAssociation, int64, error)
}

// ItemServiceInterface defines grocery list business operations
type ItemServiceInterface interface {
	AddItem(req *dto.AddItemRequest, userID uuid.UUID) (*models.GroceryItem, error)
	GetItems(filters dto.ItemFilters) ([]models.GroceryItem, error)
	GetItemByID(itemID uuid.UUID) (*models.GroceryItem, error)
	ToggleItem(itemID, userID uuid.UUID, completed bool) (*models.GroceryItem, error)
	UpdateQuantity(itemID uuid.UUID, quantity decimal.Decimal, unit string) (*models.GroceryItem, error)
	AssignCategory(itemID uuid.UUID, category models.Category, userID uuid.UUID) (*models.GroceryItem, error)
	DeleteItem(itemID uuid.UUID) error
	GetCategorySummary() ([]models.CategorySummary, error)
}

// RealtimeBroadcasterInterface pushes item change events to connected clients
type RealtimeBroadcasterInterface interface {
	BroadcastItemChange(event *models.ItemChangeEvent)
	ClientCount() int
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(accessToken, ipAddress, userAgent string) error
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	UpdatePassword(userID uuid.UUID, currentPassword, newPassword string) error
}

// ProfileServiceInterface defines household member profile operations
type ProfileServiceInterface interface {
	GetProfile(userID uuid.UUID) (*models.User, error)
	ListMembers() ([]*models.User, error)
	UpdateDisplayName(userID uuid.UUID, displayName string) error
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() CircuitBreakerState
}
