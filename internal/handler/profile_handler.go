package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/middleware"
	"github.com/dwicandra/duit/duit-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.profileService.UpdateName(userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 100 characters or less"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, user)
}

// UploadAvatar handles POST /api/v1/profile/avatar as a multipart form with
// a "file" part.
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing file", []ValidationError{
			{Field: "file", Message: "An image file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Unreadable file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		return NewValidationError(c, "Unreadable file", nil)
	}

	user, err := h.profileService.UploadAvatar(c.Request().Context(), userID, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarTooLarge):
			return NewValidationError(c, "File too large. Maximum size is 5MB", nil)
		case errors.Is(err, service.ErrInvalidAvatarFormat):
			return NewValidationError(c, "Invalid format. Supported: JPEG, PNG, WebP", nil)
		case errors.Is(err, service.ErrAvatarTooSmall):
			return NewValidationError(c, "Image too small. Minimum 50x50 pixels", nil)
		case errors.Is(err, service.ErrInvalidAvatarData):
			return NewValidationError(c, "Invalid image data", nil)
		case errors.Is(err, service.ErrAvatarStorageNotConfigured):
			return NewInternalError(c, "Avatar storage is not configured")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upload avatar")
		return NewInternalError(c, "Failed to upload avatar")
	}

	log.Info().Str("user_id", userID.String()).Msg("Avatar updated")

	return c.JSON(http.StatusOK, user)
}
