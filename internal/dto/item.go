package dto

import (
	"time"

	"github.com/google/uuid"
)

// Item Request DTOs

// AddItemRequest contains the data for adding an item to the list.
// Category is optional; when omitted the item is categorized automatically.
type AddItemRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Category string `json:"category,omitempty" validate:"omitempty,category_id"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty" validate:"omitempty,max=50"`
}

// ToggleItemRequest marks an item as completed or reopens it
type ToggleItemRequest struct {
	Completed bool `json:"completed"`
}

// UpdateQuantityRequest changes the quantity and unit of an item
type UpdateQuantityRequest struct {
	Quantity string `json:"quantity" validate:"required"`
	Unit     string `json:"unit,omitempty" validate:"omitempty,max=50"`
}

// AssignCategoryRequest moves an item to a different category.
// The assignment also feeds the keyword learning loop.
type AssignCategoryRequest struct {
	Category string `json:"category" validate:"required,category_id"`
}

// ItemFilters contains filtering options for item queries
type ItemFilters struct {
	Category         string `query:"category"`
	IncludeCompleted bool   `query:"includeCompleted"`
}

// Item Response DTOs

// ItemResponse represents a grocery item
type ItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Quantity    string     `json:"quantity"`
	Unit        string     `json:"unit,omitempty"`
	Completed   bool       `json:"completed"`
	AddedBy     uuid.UUID  `json:"addedBy"`
	CompletedBy *uuid.UUID `json:"completedBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListItemsResponse represents the response for listing items
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// CategorySummaryResponse represents per-category item counts
type CategorySummaryResponse struct {
	Category       string `json:"category"`
	ItemCount      int64  `json:"itemCount"`
	OpenCount      int64  `json:"openCount"`
	CompletedCount int64  `json:"completedCount"`
}
