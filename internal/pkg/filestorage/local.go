package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edulab/lms-backend/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// SaveBytes writes raw content into a subdirectory of the storage root.
// It returns the relative path under which the file is addressable.
func (ls *LocalStorage) SaveBytes(content []byte, subPath, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}

	// Ensure the subdirectory exists
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	dstPath := filepath.Join(fullDirPath, filename)
	if err := os.WriteFile(dstPath, content, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file content")
		// Attempt to remove the partially created file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := filepath.Join("uploads", subPath, filename)
	logger.Info().Str("saved_as", filename).Str("path", relPath).Int("size", len(content)).Msg("File saved successfully")
	return relPath, nil
}

// DeleteFile removes a file from the storage filesystem.
// It accepts the file path as stored in the database (e.g., uploads/certificates/cert_x.pdf).
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil // Nothing to delete
	}

	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	// Check if the file exists first
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil // Idempotent delete
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the full filesystem path for a stored file path.
// Stored paths are relative and prefixed with "uploads/".
func (ls *LocalStorage) GetFullPath(filePath string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(filePath), "uploads/")
	rel = filepath.Clean(rel)
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return ""
	}

	return filepath.Join(ls.basePath, rel)
}
