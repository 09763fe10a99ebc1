package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// Store implements ports.ArtifactStore using the local filesystem.
// Each artifact is one file in BasePath named after the artifact plus Ext.
type Store struct {
	BasePath string
	Ext      string
}

// Option configures a Store.
type Option func(*Store)

// WithExtension sets the file extension appended to artifact names.
func WithExtension(ext string) Option {
	return func(s *Store) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.Ext = ext
	}
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".devicegraph/artifacts".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = filepath.Join(".devicegraph", "artifacts")
	}
	s := &Store{BasePath: basePath, Ext: ".json"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("artifact name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(s.BasePath, name+s.Ext), nil
}

// Save writes the artifact atomically.
// It writes to a temporary file first, syncs it, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure artifact directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing artifact for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to artifact: %w", err)
	}
	return nil
}

// Load reads the artifact file.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}

// Delete removes the artifact file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// List returns the names of all artifacts in the directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || strings.HasPrefix(file, "tmp-") || !strings.HasSuffix(file, s.Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(file, s.Ext))
	}
	sort.Strings(names)
	return names, nil
}
