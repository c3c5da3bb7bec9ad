package services

import (
	"context"
	"fmt"
	"sync"
)

// MockStorage is an in-memory ObjectStorage for tests
type MockStorage struct {
	objects map[string][]byte
	mu      sync.RWMutex
}

// NewMockStorage creates an empty mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{objects: make(map[string][]byte)}
}

func (m *MockStorage) PutObject(ctx context.Context, key string, content []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), content...)
	return nil
}

func (m *MockStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if !m.Exists(key) {
		return "", fmt.Errorf("object not found: %s", key)
	}
	return fmt.Sprintf("https://mock-storage.local/%s", key), nil
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists reports whether an object is stored under key
func (m *MockStorage) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Count returns the number of stored objects
func (m *MockStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
