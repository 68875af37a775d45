package testutil

import (
	"context"
	"maps"
	"sync"
)

// MemKV is an in-memory key/value store for tests. Setting Err makes every
// call fail with it.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
	Err  error
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data[key] = value
	return nil
}

func (m *MemKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Snapshot returns a copy of the stored values.
func (m *MemKV) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}
