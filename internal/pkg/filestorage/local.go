package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/campus/internal/pkg/logger"
)

// ErrOutsideStorage is returned when a URL does not point into the storage root.
var ErrOutsideStorage = errors.New("file is not managed by this storage")

// FileStorage stores uploaded course materials and submission files.
type FileStorage interface {
	// Save stores the upload under subPath and returns its public URL.
	Save(fileHeader *multipart.FileHeader, subPath string) (string, error)
	// Delete removes a previously saved file identified by its public URL.
	Delete(fileURL string) error
	// Resolve returns the on-disk path of a file this storage saved.
	Resolve(fileURL string) (string, error)
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory for stored files
	baseURL  string // URL prefix of saved files; downloads go through authorized handlers
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save copies the uploaded file to basePath/subPath under a random name.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", errors.New("no file provided")
	}
	subPath = strings.Trim(filepath.ToSlash(filepath.Clean("/"+subPath)), "/")

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	rel := name
	if subPath != "" {
		rel = subPath + "/" + name
	}
	url := ls.baseURL + "/" + rel

	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// Delete removes the file behind fileURL. Missing files are not an error.
func (ls *LocalStorage) Delete(fileURL string) error {
	path, err := ls.pathFor(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", path).Msg("File deleted successfully")
	return nil
}

// Resolve maps fileURL back to its path under basePath. URLs this storage did
// not produce return ErrOutsideStorage.
func (ls *LocalStorage) Resolve(fileURL string) (string, error) {
	return ls.pathFor(fileURL)
}

func (ls *LocalStorage) pathFor(fileURL string) (string, error) {
	rel, ok := strings.CutPrefix(fileURL, ls.baseURL+"/")
	if !ok || rel == "" {
		return "", ErrOutsideStorage
	}
	clean := filepath.Clean("/" + rel)
	if clean == "/" {
		return "", ErrOutsideStorage
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(clean)), nil
}
