package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// MaxImageSize is 5MB in bytes
	MaxImageSize = 5 * 1024 * 1024
)

// allowedImageTypes maps accepted file extensions to their content type
var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded listing image format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxImageSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxImageSize/(1024*1024)),
		}
	}

	if _, ok := allowedImageTypes[strings.ToLower(filepath.Ext(fileHeader.Filename))]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG and JPEG files are allowed",
		}
	}

	return nil
}

// ImageContentType returns the content type for an image file name
func ImageContentType(filename string) string {
	if ct, ok := allowedImageTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsSafeFilename rejects names that could escape the upload directory
func IsSafeFilename(filename string) bool {
	if filename == "" || filename == "." {
		return false
	}
	return !strings.Contains(filename, "..") && !strings.ContainsAny(filename, `/\`)
}

// ReadUploadedFile reads the content of an uploaded file and sniffs its type.
// The sniffed type must agree with the extension so a renamed file is rejected.
func ReadUploadedFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close uploaded file")
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if http.DetectContentType(content) != ImageContentType(fileHeader.Filename) {
		return nil, &FileUploadError{
			Code:    "INVALID_FILE_CONTENT",
			Message: "File content does not match its extension",
		}
	}

	return content, nil
}

// SaveFile writes content to uploadDir/filename, creating the directory if needed
func SaveFile(uploadDir, filename string, content []byte) (err error) {
	if !IsSafeFilename(filename) {
		return fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(uploadDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := dst.Write(content); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// GetImageURL returns the URL path for accessing a locally stored image
func GetImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", filename)
}
