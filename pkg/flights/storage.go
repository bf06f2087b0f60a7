package flights

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrNoData is returned by Storage.Load when nothing has been saved yet.
var ErrNoData = errors.New("no saved flights")

// Storage is a durable slot holding the encoded flight collection.
type Storage interface {
	// Load returns the saved bytes, or ErrNoData if the slot is empty.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the slot contents.
	Save(ctx context.Context, data []byte) error
}

// MemoryStorage is a Storage that lives only as long as the process.
type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStorage returns an empty in-memory slot.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNoData
	}
	return slices.Clone(m.data), nil
}

func (m *MemoryStorage) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
