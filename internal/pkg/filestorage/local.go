package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Storage defines the file storage operations used by the resource services.
type Storage interface {
	// Save stores an uploaded file under the given bucket and returns
	// the relative object path (e.g. "notes/12/9f2c1a.pdf").
	Save(fileHeader *multipart.FileHeader, bucket string) (string, error)

	// Remove deletes a stored object. Missing objects are not an error.
	Remove(objectPath string) error

	// Exists reports whether the object is present.
	Exists(objectPath string) bool

	// FullPath returns the filesystem path for a stored object.
	FullPath(objectPath string) string
}

// LocalStorage stores uploaded files on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		log.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Save stores the uploaded file under bucket with a collision-free name.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, bucket string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, bucket)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Error().Err(err).Str("path", dir).Msg("Failed to create bucket directory")
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	objectName := uuid.New().String() + ext
	dstPath := filepath.Join(dir, objectName)

	dst, err := os.Create(dstPath)
	if err != nil {
		log.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		log.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	objectPath := bucket + "/" + objectName
	log.Info().
		Str("filename", fileHeader.Filename).
		Str("object", objectPath).
		Msg("File saved")
	return objectPath, nil
}

// Remove deletes a stored object from the filesystem.
func (ls *LocalStorage) Remove(objectPath string) error {
	if objectPath == "" {
		return nil
	}

	fullPath := ls.FullPath(objectPath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove file %s: %w", objectPath, err)
	}
	return nil
}

// Exists reports whether the object is present on disk.
func (ls *LocalStorage) Exists(objectPath string) bool {
	if objectPath == "" {
		return false
	}
	_, err := os.Stat(ls.FullPath(objectPath))
	return err == nil
}

// FullPath returns the filesystem path for a stored object. The object
// path is cleaned so it cannot escape the storage root.
func (ls *LocalStorage) FullPath(objectPath string) string {
	clean := filepath.Clean("/" + strings.ReplaceAll(objectPath, "\\", "/"))
	return filepath.Join(ls.basePath, clean)
}
