package dto

// PaginationParams contains pagination parameters
type PaginationParams struct {
	Offset int `query:"offset"`
	Limit  int `query:"limit"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Total  int64 `json:"total"`
}
