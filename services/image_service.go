package services

import (
	"fmt"
	"mime/multipart"

	"github.com/ella-marsh/handyhub-api/utils"
)

// ImageService manages service catalog images: upload, presigned access
// URLs, and deletion. Implementations are free to choose the backing store.
type ImageService interface {
	UploadImage(fileHeader *multipart.FileHeader) (string, error)
	GetImageURL(imageKey string) (string, error)
	DeleteImage(imageKey string) error
}

// storageImageService backs ImageService with the S3 service. Validation
// happens here so the storage layer only ever sees acceptable files.
type storageImageService struct {
	store S3Interface
}

var imageServiceInstance ImageService

// InitImageService wires the image service to the given storage backend.
func InitImageService(store S3Interface) ImageService {
	imageServiceInstance = &storageImageService{store: store}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance. It returns
// nil when image storage is not configured.
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

func (s *storageImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.store.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

func (s *storageImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.store.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

func (s *storageImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.store.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
