package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/ella-marsh/handyhub-api/utils"
)

// MockImageService is an in-memory ImageService for tests. It runs the same
// validation as the real service but only records which keys were uploaded.
type MockImageService struct {
	mu   sync.RWMutex
	keys map[string]int64
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{keys: make(map[string]int64)}
}

// SetAsMockForTesting sets this mock as the global image service instance
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage validates the file and records its key
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := fmt.Sprintf("services/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.keys[key] = fileHeader.Size
	m.mu.Unlock()

	return key, nil
}

// GetImageURL returns a fake URL for a recorded key
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.keys[imageKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("image not found: %s", imageKey)
	}
	return fmt.Sprintf("https://mock-bucket.example.com/%s", imageKey), nil
}

// DeleteImage forgets a recorded key
func (m *MockImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.keys, imageKey)
	m.mu.Unlock()
	return nil
}

// HasImage reports whether a key was uploaded and not deleted (test helper)
func (m *MockImageService) HasImage(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.keys[imageKey]
	return exists
}
