package photoarchive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalArchive stores photos on the local filesystem under BasePath.
type LocalArchive struct {
	basePath string
}

func NewLocalArchive(cfg Config) (*LocalArchive, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "data/photos"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("photoarchive: create base directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

func (a *LocalArchive) Put(_ context.Context, key string, image []byte, _ string) error {
	fullPath := filepath.Join(a.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("photoarchive: create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("photoarchive: create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, bytes.NewReader(image)); err != nil {
		return fmt.Errorf("photoarchive: write file: %w", err)
	}
	return nil
}

func (a *LocalArchive) Get(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(a.basePath, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("photoarchive: open file: %w", err)
	}
	return file, nil
}

func (a *LocalArchive) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(a.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("photoarchive: delete file: %w", err)
	}
	return nil
}
