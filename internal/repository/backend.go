package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// FileBackend keeps the document in a single JSON file.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Load(_ context.Context) ([]byte, error) {
	raw, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return raw, err
}

// Save replaces the file atomically; the new content is synced to disk
// before it takes the place of the old one.
func (b *FileBackend) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := atomic.WriteFile(b.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	return nil
}

// MemoryBackend keeps the document in memory only.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	return nil
}
