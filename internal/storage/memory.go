package storage

import (
	"strconv"
	"sync"
)

// MemoryKV is an in-process key-value store used when no database is
// available. Values are lost on exit.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// SetMax stores value under key unless a larger integer is already there.
// It returns the value stored afterwards.
func (m *MemoryKV) SetMax(key string, value int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, err := strconv.Atoi(m.data[key]); err == nil && cur >= value {
		return cur, nil
	}
	m.data[key] = strconv.Itoa(value)
	return value, nil
}
