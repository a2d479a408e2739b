package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestGetProfile(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewProfileService(userRepo, nil)

	userID := uuid.New()
	userRepo.AddUser("auth0|abc", &domain.User{ID: userID, Email: "a@b.c", Name: "Ada"})

	user, err := svc.GetProfile(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Name != "Ada" {
		t.Errorf("Expected name 'Ada', got %s", user.Name)
	}

	if _, err := svc.GetProfile(uuid.New()); err != domain.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateName(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewProfileService(userRepo, nil)

	userID := uuid.New()
	userRepo.AddUser("auth0|abc", &domain.User{ID: userID, Email: "a@b.c", Name: "Ada"})

	user, err := svc.UpdateName(userID, "  Ada Lovelace  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Name != "Ada Lovelace" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}

	if _, err := svc.UpdateName(userID, "   "); err != domain.ErrInvalidInput {
		t.Errorf("Expected ErrInvalidInput for blank name, got %v", err)
	}

	long := strings.Repeat("a", domain.MaxPersonNameLength+1)
	if _, err := svc.UpdateName(userID, long); err != domain.ErrNameTooLong {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestUploadAvatar_ReplacesAndCleansUp(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	objectRepo := newMemoryObjectRepository()
	svc := NewProfileService(userRepo, NewAvatarService(objectRepo))

	userID := uuid.New()
	oldURL := "https://cdn.test/avatars/old/old.jpg"
	userRepo.AddUser("auth0|abc", &domain.User{ID: userID, Email: "a@b.c", Name: "Ada", AvatarURL: &oldURL})

	data, filename := createTestImage(100, 100, "png")

	user, err := svc.UploadAvatar(context.Background(), userID, data, filename)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.AvatarURL == nil || !strings.HasPrefix(*user.AvatarURL, "https://cdn.test/avatars/") {
		t.Errorf("Expected new avatar URL, got %v", user.AvatarURL)
	}
	if *user.AvatarURL == oldURL {
		t.Error("Expected avatar URL to change")
	}

	// The previous object is removed best-effort
	if len(objectRepo.deleted) != 1 {
		t.Errorf("Expected 1 deleted object, got %d", len(objectRepo.deleted))
	}
}

func TestUploadAvatar_StorageNotConfigured(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewProfileService(userRepo, NewAvatarService(nil))

	userID := uuid.New()
	userRepo.AddUser("auth0|abc", &domain.User{ID: userID, Email: "a@b.c", Name: "Ada"})

	data, filename := createTestImage(100, 100, "png")

	if _, err := svc.UploadAvatar(context.Background(), userID, data, filename); err != ErrAvatarStorageNotConfigured {
		t.Errorf("Expected ErrAvatarStorageNotConfigured, got %v", err)
	}
}

func TestUploadAvatar_InvalidImagePreservesProfile(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	objectRepo := newMemoryObjectRepository()
	svc := NewProfileService(userRepo, NewAvatarService(objectRepo))

	userID := uuid.New()
	userRepo.AddUser("auth0|abc", &domain.User{ID: userID, Email: "a@b.c", Name: "Ada"})

	if _, err := svc.UploadAvatar(context.Background(), userID, []byte("junk"), "x.png"); err != ErrInvalidAvatarData {
		t.Errorf("Expected ErrInvalidAvatarData, got %v", err)
	}

	user, _ := userRepo.GetByID(userID)
	if user.AvatarURL != nil {
		t.Errorf("Expected avatar URL untouched, got %v", user.AvatarURL)
	}
}
