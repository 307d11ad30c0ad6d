package models

// CategorySummary contains aggregated list counts for one category, used by
// the client to render aisle section headers.
type CategorySummary struct {
	Category       Category `json:"category"`
	ItemCount      int64    `json:"item_count"`
	OpenCount      int64    `json:"open_count"`
	CompletedCount int64    `json:"completed_count"`
}
