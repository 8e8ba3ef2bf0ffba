package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
)

// MaxFileSize caps uploaded service images at 10MB.
const MaxFileSize = 10 << 20

// allowedImageExts are the extensions accepted for service images.
// Matching is case-insensitive on the filename extension.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// FileUploadError carries a machine-readable code alongside the message so
// handlers can map validation failures to API error codes.
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile checks an uploaded file's size and extension before it
// is handed to storage.
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize>>20),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(allowedExtList(), ", ")),
		}
	}
	return nil
}

func allowedExtList() []string {
	exts := make([]string, 0, len(allowedImageExts))
	for ext := range allowedImageExts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
