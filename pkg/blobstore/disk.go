package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jusacademy/courses-server-go/pkg/apperrors"
)

// DiskStore writes payloads under a public uploads directory, the development
// storage mode of the legacy deployment.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a filesystem-backed store rooted at baseDir.
func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: baseDir}
}

// Put writes the payload to disk. Nothing is carried inline.
func (s *DiskStore) Put(ctx context.Context, key string, data []byte) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.New("failed to prepare upload directory", http.StatusInternalServerError, apperrors.ErrStorage, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, apperrors.New("failed to write upload", http.StatusInternalServerError, apperrors.ErrStorage, err)
	}

	return nil, nil
}

// Fetch reads the payload back from disk.
func (s *DiskStore) Fetch(ctx context.Context, key string, inline []byte) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, apperrors.New("failed to read upload", http.StatusInternalServerError, apperrors.ErrStorage, err)
	}

	return data, nil
}

// Remove deletes the payload file. Missing files are not an error.
func (s *DiskStore) Remove(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.New("failed to remove upload", http.StatusInternalServerError, apperrors.ErrStorage, err)
	}

	return nil
}

// resolve joins the key under the base directory, rejecting path traversal.
func (s *DiskStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
