package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/local-services-api/utils"
)

// ImageService handles listing images: validation, upload, URLs and deletion
type ImageService interface {
	// UploadImage validates and stores an image file, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing a stored image
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// StorageImageService implements ImageService on top of an ObjectStorage
type StorageImageService struct {
	storage ObjectStorage
}

var imageServiceInstance ImageService

// NewImageService creates an image service backed by storage
func NewImageService(storage ObjectStorage) *StorageImageService {
	return &StorageImageService{storage: storage}
}

// InitImageService initializes the shared image service
func InitImageService(storage ObjectStorage) ImageService {
	imageServiceInstance = NewImageService(storage)
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

func (s *StorageImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		return "", err
	}

	// Keys never contain path separators so they are valid local file names too
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString(), ext)

	if err := s.storage.PutObject(ctx, key, content, utils.ImageContentType(fileHeader.Filename)); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

func (s *StorageImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.storage.URL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

func (s *StorageImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.storage.DeleteObject(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
