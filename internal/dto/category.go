package dto

import (
	"time"

	"github.com/google/uuid"
)

// Category Response DTOs

// CategoryResponse represents a category definition
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// KeywordResponse represents a learned keyword association
type KeywordResponse struct {
	ID        uuid.UUID `json:"id"`
	Keyword   string    `json:"keyword"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListKeywordsResponse represents the response for listing learned keywords
type ListKeywordsResponse struct {
	Keywords   []KeywordResponse `json:"keywords"`
	Pagination PaginationInfo    `json:"pagination"`
}

// Keyword Request DTOs

// AddKeywordRequest teaches the categorizer a keyword directly
type AddKeywordRequest struct {
	Keyword  string `json:"keyword" validate:"required,keyword"`
	Category string `json:"category" validate:"required,category_id"`
}

// CategorizeRequest asks for the category of an item name without creating an item
type CategorizeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// CategorizeResponse carries the categorization outcome
type CategorizeResponse struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Source         string `json:"source"`
	MatchedKeyword string `json:"matchedKeyword,omitempty"`
}
