package repositories

import (
	"errors"
	"fmt"

	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("grocery item not found")
)

// ItemRepository handles database operations for the shared grocery list
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepositoryInterface {
	return &ItemRepository{
		db: db,
	}
}

// Create adds an item to the shared list
func (r *ItemRepository) Create(item *models.GroceryItem) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its ID
func (r *ItemRepository) GetByID(id uuid.UUID) (*models.GroceryItem, error) {
	var item models.GroceryItem

	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return &item, nil
}

// GetAll returns the shared list, open items first, newest within each group
func (r *ItemRepository) GetAll(includeCompleted bool) ([]models.GroceryItem, error) {
	var items []models.GroceryItem

	query := r.db.Order("completed ASC, created_at DESC")
	if !includeCompleted {
		query = query.Where("completed = ?", false)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// GetByCategory returns open items filed under one category
func (r *ItemRepository) GetByCategory(categoryID models.Category) ([]models.GroceryItem, error) {
	var items []models.GroceryItem

	err := r.db.Where("category = ? AND completed = ?", categoryID, false).
		Order("created_at DESC").
		Find(&items).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list items by category: %w", err)
	}

	return items, nil
}

// GetUncategorized returns open items still filed under the default category,
// surfaced to users for manual correction
func (r *ItemRepository) GetUncategorized() ([]models.GroceryItem, error) {
	return r.GetByCategory(models.CategoryUnknown)
}

// Update saves a full item model
func (r *ItemRepository) Update(item *models.GroceryItem) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	return nil
}

// UpdateFields applies a partial update to an item
func (r *ItemRepository) UpdateFields(itemID uuid.UUID, fields map[string]interface{}) error {
	result := r.db.Model(&models.GroceryItem{}).
		Where("id = ?", itemID).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update item fields: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete soft-deletes an item from the list
func (r *ItemRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.GroceryItem{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// GetCategorySummary returns per-category item counts for the list header
func (r *ItemRepository) GetCategorySummary() ([]models.CategorySummary, error) {
	var summaries []models.CategorySummary

	err := r.db.Model(&models.GroceryItem{}).
		Select(`category,
			COUNT(*) as item_count,
			SUM(CASE WHEN completed THEN 0 ELSE 1 END) as open_count,
			SUM(CASE WHEN completed THEN 1 ELSE 0 END) as completed_count`).
		Group("category").
		Order("category ASC").
		Scan(&summaries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to build category summary: %w", err)
	}

	return summaries, nil
}

// CountOpen returns the number of items still to shop
func (r *ItemRepository) CountOpen() (int64, error) {
	var count int64

	err := r.db.Model(&models.GroceryItem{}).
		Where("completed = ?", false).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count open items: %w", err)
	}

	return count, nil
}
