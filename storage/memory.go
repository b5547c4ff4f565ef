package storage

import "sync"

// Memory is an in-process slot. It is the default repository and the test
// double for the durable layer.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	written bool
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{}
}

// Load implements session.Repository.
func (m *Memory) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.written {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

// Save implements session.Repository.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.written = true
	return nil
}
