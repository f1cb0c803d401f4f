package preferences

import (
	"context"
	"errors"
	"sync"

	"github.com/noah-isme/sma-attendance-dashboard/pkg/storage"
)

const fileSuffix = ".json"

// FileBackend stores one JSON file per key under a directory.
type FileBackend struct {
	mu      sync.Mutex
	storage *storage.LocalStorage
}

// NewFileBackend opens (and creates) dir.
func NewFileBackend(dir string) (*FileBackend, error) {
	ls, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &FileBackend{storage: ls}, nil
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := b.storage.Read(key + fileSuffix)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.storage.Save(key+fileSuffix, value)
	return err
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storage.Delete(key + fileSuffix)
}
