package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MaxItemNameLength = 255

// GroceryItem is one entry on the shared household list.
type GroceryItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Category    Category        `gorm:"type:varchar(50);not null;default:'unknown';index" json:"category"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1" json:"quantity"`
	Unit        string          `gorm:"type:varchar(20)" json:"unit,omitempty"`
	Completed   bool            `gorm:"not null;default:false;index" json:"completed"`
	AddedBy     uuid.UUID       `gorm:"type:uuid;not null;index" json:"added_by"`
	CompletedBy *uuid.UUID      `gorm:"type:uuid" json:"completed_by,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`

	Creator User `gorm:"foreignKey:AddedBy;constraint:OnDelete:CASCADE" json:"-"`
}

func (gi *GroceryItem) BeforeCreate(tx *gorm.DB) error {
	if gi.ID == uuid.Nil {
		gi.ID = uuid.New()
	}

	if gi.Category == "" {
		gi.Category = CategoryUnknown
	}

	if gi.Quantity.IsZero() {
		gi.Quantity = decimal.NewFromInt(1)
	}

	now := time.Now()
	if gi.CreatedAt.IsZero() {
		gi.CreatedAt = now
	}
	if gi.UpdatedAt.IsZero() {
		gi.UpdatedAt = now
	}

	return gi.Validate()
}

func (gi *GroceryItem) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates carry an empty struct; only validate full-model saves
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return gi.Validate()
}

func (gi *GroceryItem) Validate() error {
	if gi.Name == "" {
		return errors.New("item name is required")
	}

	if len(gi.Name) > MaxItemNameLength {
		return fmt.Errorf("item name must not exceed %d characters", MaxItemNameLength)
	}

	if !IsValidCategory(gi.Category) {
		return fmt.Errorf("invalid category: %s", gi.Category)
	}

	if gi.Quantity.IsNegative() {
		return errors.New("quantity cannot be negative")
	}

	if gi.AddedBy == uuid.Nil {
		return errors.New("added_by is required")
	}

	return nil
}

// Complete marks the item as picked up by the given user
func (gi *GroceryItem) Complete(userID uuid.UUID) {
	now := time.Now()
	gi.Completed = true
	gi.CompletedBy = &userID
	gi.CompletedAt = &now
}

// Reopen puts a completed item back on the open list
func (gi *GroceryItem) Reopen() {
	gi.Completed = false
	gi.CompletedBy = nil
	gi.CompletedAt = nil
}

func (gi *GroceryItem) IsUncategorized() bool {
	return gi.Category == CategoryUnknown
}

func (gi *GroceryItem) TableName() string {
	return "grocery_items"
}
