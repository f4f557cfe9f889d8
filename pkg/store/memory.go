package store

import (
	"context"
	"sync"
)

// Memory is a process-local Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data), nil
}

func (m *Memory) Close() error { return nil }

// Null discards writes and always misses.
type Null struct{}

// NewNull returns a Store that never holds data.
func NewNull() Null { return Null{} }

func (Null) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Null) Set(context.Context, string, []byte) error { return nil }
func (Null) Delete(context.Context, string) error { return nil }
func (Null) Clear(context.Context) error { return nil }
func (Null) Len(context.Context) (int, error) { return 0, nil }
func (Null) Close() error { return nil }
