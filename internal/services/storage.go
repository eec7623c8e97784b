package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StorageService spills request documents to local disk for the duration of
// one analysis. Paths it hands out are request-scoped and removed by cleanup.
type StorageService interface {
	EnsureUploadDir() error
	SaveTemp(data []byte, originalName string) (string, error)
	Remove(path string)
	RemoveAll(paths []string)
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveTemp writes the document under a unique name and returns its path.
func (s *storageService) SaveTemp(data []byte, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	uniqueFilename := fmt.Sprintf("tender_%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

// Remove deletes one temp file. Failures are logged and swallowed; local
// cleanup must never surface to the caller.
func (s *storageService) Remove(path string) {
	if path == "" {
		return
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove temp file %s: %v\n", path, err)
	}
}

// RemoveAll deletes every path, continuing past failures.
func (s *storageService) RemoveAll(paths []string) {
	for _, path := range paths {
		s.Remove(path)
	}
}
