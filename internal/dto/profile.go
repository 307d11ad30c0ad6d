package dto

// Profile Request DTOs

// UpdateDisplayNameRequest changes the name shown next to a user's items
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"displayName" validate:"required,display_name"`
}
