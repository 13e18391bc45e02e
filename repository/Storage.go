package repository

import (
	"context"
	"sync"
)

// Storage is a key/value cell store. Set replaces the whole value in one write.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) (err error)
}

type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string]string),
	}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (value string, found bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found = m.items[key]
	return
}

func (m *MemoryStorage) Set(_ context.Context, key string, value string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return
}
