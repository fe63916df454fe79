package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

// LocalImageStore reads guide images from a directory on disk.
type LocalImageStore struct {
	basePath string
}

func NewLocalImageStore(basePath string) *LocalImageStore {
	return &LocalImageStore{basePath: basePath}
}

func (s *LocalImageStore) Get(ctx context.Context, name string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", name, domain.ErrImageNotFound)
		}
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, "", fmt.Errorf("%s: %w", name, domain.ErrImageNotFound)
	}
	return f, extToMimeType(filePath), nil
}

// Exists reports whether name resolves to a regular file under the base path.
func (s *LocalImageStore) Exists(ctx context.Context, name string) (bool, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat image: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// safeJoin resolves name relative to basePath and rejects directory traversal.
func (s *LocalImageStore) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt: %w", domain.ErrImageNotFound)
	}
	return absPath, nil
}

func extToMimeType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
