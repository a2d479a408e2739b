package service

import (
	"context"
	"strings"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo      domain.UserRepository
	avatarService *AvatarService
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, avatarService *AvatarService) *ProfileService {
	return &ProfileService{
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateName updates the user's display name.
func (s *ProfileService) UpdateName(userID uuid.UUID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(name) > domain.MaxPersonNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.userRepo.UpdateName(userID, name)
}

// UploadAvatar processes an avatar image, stores it, and records the new
// URL on the profile. The previous avatar's objects are removed best-effort.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*domain.User, error) {
	if s.avatarService == nil || !s.avatarService.IsEnabled() {
		return nil, ErrAvatarStorageNotConfigured
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.avatarService.ProcessAndUpload(ctx, userID, data, filename)
	if err != nil {
		return nil, err
	}

	if user.AvatarURL != nil {
		_ = s.avatarService.DeleteByURL(ctx, *user.AvatarURL)
	}

	return s.userRepo.UpdateAvatarURL(userID, avatarURL)
}
