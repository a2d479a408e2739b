package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// Fill with a solid color
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	var filename string

	switch format {
	case "jpeg":
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "test.jpg"
	case "png":
		png.Encode(&buf, img)
		filename = "test.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "test.jpg"
	}

	return buf.Bytes(), filename
}

// memoryObjectRepository is an in-memory storage.ObjectRepository for tests
type memoryObjectRepository struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryObjectRepository() *memoryObjectRepository {
	return &memoryObjectRepository{objects: make(map[string][]byte)}
}

func (m *memoryObjectRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.objects[objectPath] = b
	return m.GenerateURL(objectPath), nil
}

func (m *memoryObjectRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.objects, objectPath)
	m.deleted = append(m.deleted, objectPath)
	return nil
}

func (m *memoryObjectRepository) DeleteByURL(ctx context.Context, objectURL string) error {
	return m.Delete(ctx, strings.TrimPrefix(objectURL, "https://cdn.test/"))
}

func (m *memoryObjectRepository) GenerateURL(objectPath string) string {
	return "https://cdn.test/" + objectPath
}

func TestProcessAndUpload_ValidPNG(t *testing.T) {
	repo := newMemoryObjectRepository()
	svc := NewAvatarService(repo)

	data, filename := createTestImage(100, 100, "png")

	url, err := svc.ProcessAndUpload(context.Background(), uuid.New(), data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.test/avatars/") {
		t.Errorf("expected avatar URL under avatars/, got %s", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("expected re-encoded .jpg object, got %s", url)
	}
	if len(repo.objects) != 1 {
		t.Errorf("expected 1 stored object, got %d", len(repo.objects))
	}
}

func TestProcessAndUpload_ResizesWideImages(t *testing.T) {
	repo := newMemoryObjectRepository()
	svc := NewAvatarService(repo)

	data, filename := createTestImage(1024, 768, "jpeg")

	if _, err := svc.ProcessAndUpload(context.Background(), uuid.New(), data, filename); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, stored := range repo.objects {
		img, _, err := image.Decode(bytes.NewReader(stored))
		if err != nil {
			t.Fatalf("stored object is not a decodable image: %v", err)
		}
		if img.Bounds().Dx() != AvatarWidth {
			t.Errorf("expected stored width %d, got %d", AvatarWidth, img.Bounds().Dx())
		}
	}
}

func TestProcessAndUpload_TooSmall(t *testing.T) {
	svc := NewAvatarService(newMemoryObjectRepository())

	data, filename := createTestImage(30, 30, "png")

	if _, err := svc.ProcessAndUpload(context.Background(), uuid.New(), data, filename); err != ErrAvatarTooSmall {
		t.Errorf("expected ErrAvatarTooSmall, got %v", err)
	}
}

func TestProcessAndUpload_BadExtension(t *testing.T) {
	svc := NewAvatarService(newMemoryObjectRepository())

	data, _ := createTestImage(100, 100, "png")

	if _, err := svc.ProcessAndUpload(context.Background(), uuid.New(), data, "avatar.gif"); err != ErrInvalidAvatarFormat {
		t.Errorf("expected ErrInvalidAvatarFormat, got %v", err)
	}
}

func TestProcessAndUpload_GarbageData(t *testing.T) {
	svc := NewAvatarService(newMemoryObjectRepository())

	if _, err := svc.ProcessAndUpload(context.Background(), uuid.New(), []byte("not an image"), "avatar.png"); err != ErrInvalidAvatarData {
		t.Errorf("expected ErrInvalidAvatarData, got %v", err)
	}
}

func TestProcessAndUpload_TooLarge(t *testing.T) {
	svc := NewAvatarService(newMemoryObjectRepository())

	data := make([]byte, MaxAvatarSize+1)

	if _, err := svc.ProcessAndUpload(context.Background(), uuid.New(), data, "avatar.jpg"); err != ErrAvatarTooLarge {
		t.Errorf("expected ErrAvatarTooLarge, got %v", err)
	}
}

func TestProcessAndUpload_StorageNotConfigured(t *testing.T) {
	svc := NewAvatarService(nil)

	data, filename := createTestImage(100, 100, "png")

	if _, err := svc.ProcessAndUpload(context.Background(), uuid.New(), data, filename); err != ErrAvatarStorageNotConfigured {
		t.Errorf("expected ErrAvatarStorageNotConfigured, got %v", err)
	}
}

func TestDeleteByURL_EmptyURLIsNoop(t *testing.T) {
	repo := newMemoryObjectRepository()
	svc := NewAvatarService(repo)

	if err := svc.DeleteByURL(context.Background(), ""); err != nil {
		t.Errorf("expected no error for empty URL, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Errorf("expected no deletes, got %d", len(repo.deleted))
	}
}
