package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// FilesystemStore keeps audio blobs as flat files under a base directory.
// Keys are opaque identifiers assigned by the import pipeline; path
// separators are rejected so a key can never escape the base directory.
type FilesystemStore struct {
	baseDir string
	logger  *zap.Logger
}

// Ensure FilesystemStore implements the AudioStore interface
var _ repositories.AudioStore = (*FilesystemStore)(nil)

// NewFilesystemStore creates the base directory if needed and returns a
// store rooted at it.
func NewFilesystemStore(baseDir string, logger *zap.Logger) (*FilesystemStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("audio store base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	return &FilesystemStore{baseDir: baseDir, logger: logger}, nil
}

func (s *FilesystemStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid audio key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}

// Put implements repositories.AudioStore
func (s *FilesystemStore) Put(ctx context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio blob %s: %w", key, err)
	}
	s.logger.Debug("Stored audio blob", zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

// Get implements repositories.AudioStore
func (s *FilesystemStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio blob %s: %w", key, err)
	}
	return data, nil
}

// Delete implements repositories.AudioStore
func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete audio blob %s: %w", key, err)
	}
	return nil
}
