package repositories

import (
	"errors"
	"fmt"
	"strings"

	"grocerylist-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrKeywordNotFound  = errors.New("keyword association not found")
	ErrDuplicateKeyword = errors.New("keyword association already exists")
)

// KeywordRepository handles database operations for learned keyword
// associations. The table carries a unique index on (keyword, category_id),
// so concurrent inserts of the same pair cannot produce duplicate rows.
type KeywordRepository struct {
	db *gorm.DB
}

// NewKeywordRepository creates a new keyword repository
func NewKeywordRepository(db *gorm.DB) KeywordRepositoryInterface {
	return &KeywordRepository{
		db: db,
	}
}

// Create inserts a keyword association with conflict-ignore semantics.
// A pre-existing (keyword, category_id) pair returns ErrDuplicateKeyword;
// callers treat that as a successful no-op.
func (r *KeywordRepository) Create(assoc *models.KeywordAssociation) error {
	if assoc == nil {
		return errors.New("keyword association cannot be nil")
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "keyword"}, {Name: "category_id"}},
		DoNothing: true,
	}).Create(assoc)

	if result.Error != nil {
		return fmt.Errorf("failed to create keyword association: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrDuplicateKeyword
	}

	return nil
}

// FindExact returns the category of the oldest association whose keyword
// equals the normalized input. Oldest-first keeps the answer stable when one
// keyword maps to multiple categories.
func (r *KeywordRepository) FindExact(keyword string) (models.Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(keyword))

	var assoc models.KeywordAssociation
	err := r.db.Where("keyword = ?", normalized).
		Order("created_at ASC").
		First(&assoc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeywordNotFound
		}
		return "", fmt.Errorf("failed to find keyword: %w", err)
	}

	return assoc.CategoryID, nil
}

// FindAll returns every association ordered longest keyword first, ties
// broken alphabetically. Substring scans over the result are deterministic:
// "pineapple" wins over "apple" for an item named "pineapple juice".
func (r *KeywordRepository) FindAll() ([]models.KeywordAssociation, error) {
	var assocs []models.KeywordAssociation

	err := r.db.Order("LENGTH(keyword) DESC, keyword ASC, created_at ASC").
		Find(&assocs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list keyword associations: %w", err)
	}

	return assocs, nil
}

// ExistsPair reports whether the exact (keyword, category_id) pair is stored
func (r *KeywordRepository) ExistsPair(keyword string, categoryID models.Category) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(keyword))

	var count int64
	err := r.db.Model(&models.KeywordAssociation{}).
		Where("keyword = ? AND category_id = ?", normalized, categoryID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check keyword pair: %w", err)
	}

	return count > 0, nil
}

// ListByCategory returns a page of associations for one category. An empty
// categoryID lists associations across all categories.
func (r *KeywordRepository) ListByCategory(categoryID models.Category, offset, limit int) ([]models.KeywordAssociation, int64, error) {
	var assocs []models.KeywordAssociation
	var total int64

	query := r.db.Model(&models.KeywordAssociation{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count keyword associations: %w", err)
	}

	err := query.Order("keyword ASC").
		Offset(offset).
		Limit(limit).
		Find(&assocs).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list keyword associations: %w", err)
	}

	return assocs, total, nil
}

// CountAll returns the total number of stored associations
func (r *KeywordRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.KeywordAssociation{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count keyword associations: %w", err)
	}

	return count, nil
}
