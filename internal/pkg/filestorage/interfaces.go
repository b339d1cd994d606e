package filestorage

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveBytes writes raw content under subPath and returns the stored
	// relative path (e.g. uploads/certificates/cert_<id>.pdf)
	SaveBytes(content []byte, subPath, filename string) (string, error)

	// DeleteFile removes a file from storage
	DeleteFile(filePath string) error

	// GetFullPath returns the full filesystem path for a stored file path
	GetFullPath(filePath string) string
}
