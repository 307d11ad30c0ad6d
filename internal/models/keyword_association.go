package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinKeywordLength is the shortest keyword worth learning. Shorter tokens
// ("to", "of") match too many item names to be useful.
const MinKeywordLength = 3

// KeywordAssociation is one learned keyword → category pair. The composite
// unique index makes concurrent learn calls safe: the insert is issued with
// ON CONFLICT DO NOTHING, so racing writers cannot produce duplicate rows.
type KeywordAssociation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Keyword    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_keyword_category" json:"keyword"`
	CategoryID Category  `gorm:"type:varchar(50);not null;uniqueIndex:idx_keyword_category" json:"category_id"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (ka *KeywordAssociation) BeforeCreate(tx *gorm.DB) error {
	if ka.ID == uuid.Nil {
		ka.ID = uuid.New()
	}

	ka.Keyword = strings.ToLower(strings.TrimSpace(ka.Keyword))

	if ka.CreatedAt.IsZero() {
		ka.CreatedAt = time.Now()
	}

	return ka.Validate()
}

func (ka *KeywordAssociation) Validate() error {
	if len(ka.Keyword) < MinKeywordLength {
		return fmt.Errorf("keyword must be at least %d characters", MinKeywordLength)
	}

	if strings.TrimSpace(ka.Keyword) != ka.Keyword || ka.Keyword != strings.ToLower(ka.Keyword) {
		return errors.New("keyword must be lowercase and trimmed")
	}

	if !IsValidCategory(ka.CategoryID) {
		return fmt.Errorf("invalid category: %s", ka.CategoryID)
	}

	return nil
}

func (ka *KeywordAssociation) TableName() string {
	return "keyword_associations"
}
