package storeserver

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage holds uploaded receipt files.
type Storage interface {
	Save(filename string, data []byte) (string, error)
	Get(path string) ([]byte, error)
	Delete(path string) error
}

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

func (l *LocalStorage) Get(path string) ([]byte, error) {
	// uploads are stored flat; reject anything that escapes the directory
	if filepath.Base(path) != path {
		return nil, fmt.Errorf("invalid file path %q", path)
	}
	fullPath := filepath.Join(l.basePath, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

func (l *LocalStorage) Delete(path string) error {
	fullPath := filepath.Join(l.basePath, filepath.Base(path))
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
