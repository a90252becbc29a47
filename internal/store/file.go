package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"runaway-service/internal/models"
)

// FileStore хранит результат в JSON-файле
type FileStore struct {
	path string
}

// NewFileStore создает файловое хранилище по заданному пути
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path возвращает путь к файлу результата
func (f *FileStore) Path() string {
	return f.path
}

// Save записывает результат во временный файл рядом с целевым и переименовывает его
func (f *FileStore) Save(_ context.Context, result models.PersistedResult) error {
	data, err := Encode(result)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".result-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write result: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close result: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("rename result: %w", err)
	}

	success = true
	return nil
}

// Load читает и проверяет сохраненный результат
func (f *FileStore) Load(_ context.Context) (models.PersistedResult, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.PersistedResult{}, fmt.Errorf("%w: %s", ErrNotFound, f.path)
	}
	if err != nil {
		return models.PersistedResult{}, fmt.Errorf("read result: %w", err)
	}
	return Decode(data)
}

// Ping проверяет доступность каталога с результатом
func (f *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(f.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(f.path))
	}
	return nil
}
