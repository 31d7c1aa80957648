package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.ObjectStorageService = (*LocalObjectStorage)(nil)

// LocalObjectStorage keeps objects as files under a root directory. It is
// meant for development and single-node installs.
type LocalObjectStorage struct {
	root   string
	logger *zap.Logger
}

// NewLocalObjectStorage creates the root directory if needed
func NewLocalObjectStorage(root string, logger *zap.Logger) (*LocalObjectStorage, error) {
	if root == "" {
		return nil, errors.New("storage directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalObjectStorage{root: abs, logger: logger}, nil
}

// Upload writes body to the file for key, replacing any previous content
func (s *LocalObjectStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}

	s.logger.Debug("Object stored", zap.String("key", key))
	return nil
}

// Open returns the file for key. The content type is derived from the
// extension.
func (s *LocalObjectStorage) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, "", shared.ErrNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", shared.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open object: %w", err)
	}
	return f, mime.TypeByExtension(filepath.Ext(path)), nil
}

// DeleteObject removes the file. Missing files are ignored.
func (s *LocalObjectStorage) DeleteObject(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// path maps key into the root, rejecting keys that escape it
func (s *LocalObjectStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if path != s.root && !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %q escapes the storage root", key)
	}
	return path, nil
}

// NewObjectStorage creates the driver selected by cfg.Driver
func NewObjectStorage(ctx context.Context, cfg infraconfig.StorageConfig, logger *zap.Logger) (catalogapp.ObjectStorageService, error) {
	switch cfg.Driver {
	case infraconfig.StorageDriverS3:
		s, err := NewS3ObjectStorage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case infraconfig.StorageDriverLocal, "":
		return NewLocalObjectStorage(cfg.LocalDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
