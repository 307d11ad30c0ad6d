package handlers

import (
	"net/http"

	"grocerylist-api/internal/dto"
	"grocerylist-api/internal/errors"
	"grocerylist-api/internal/models"
	"grocerylist-api/internal/services"

	"github.com/labstack/echo/v4"
)

// ProfileHandler handles household member profile endpoints
type ProfileHandler struct {
	profileService  services.ProfileServiceInterface
	passwordService services.PasswordServiceInterface
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService services.ProfileServiceInterface, passwordService services.PasswordServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		passwordService: passwordService,
	}
}

// GetProfile returns the authenticated member's profile
// @Summary Get own profile
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.UserProfileResponse} "Profile"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 404 {object} errors.ErrorResponse "Member not found - USER_001"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: newProfileResponse(user),
	})
}

// ListMembers returns every member of the household
// @Summary List household members
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.UserProfileResponse} "Members"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_002"
// @Router /members [get]
func (h *ProfileHandler) ListMembers(c echo.Context) error {
	members, err := h.profileService.ListMembers()
	if err != nil {
		return SendSystemError(c, err)
	}

	responses := make([]dto.UserProfileResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, *newProfileResponse(member))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: responses,
	})
}

// UpdateDisplayName changes the member's display name
// @Summary Update display name
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateDisplayNameRequest true "New display name"
// @Success 200 {object} SuccessResponse{message=string} "Display name updated"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 404 {object} errors.ErrorResponse "Member not found - USER_001"
// @Router /profile/display-name [put]
func (h *ProfileHandler) UpdateDisplayName(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdateDisplayNameRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.profileService.UpdateDisplayName(userID, req.DisplayName); err != nil {
		switch err {
		case services.ErrUserNotFound:
			return SendError(c, errors.UserNotFound)
		case services.ErrDisplayNameRequired, services.ErrDisplayNameTooLong:
			return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Display name updated",
	})
}

// ChangePassword changes the member's password
// @Summary Change own password
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} SuccessResponse{message=string} "Password changed"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "Wrong current password - AUTH_001"
// @Router /profile/password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.passwordService.UpdatePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch err {
		case services.ErrCurrentPasswordWrong:
			return SendError(c, errors.AuthInvalidCredentials)
		case services.ErrUserNotFound:
			return SendError(c, errors.UserNotFound)
		case services.ErrSamePassword:
			return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
		}
		if h.passwordService.ValidatePassword(req.NewPassword) != nil {
			return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Password changed",
	})
}

func newProfileResponse(user *models.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
