// Package cache provides the result cache used by the HTTP API to avoid
// recomputing identical tax estimates. Failures are non-fatal: a broken cache
// degrades to recomputation.
package cache

import (
	"context"
	"sync"
)

// Store is a small key-value cache.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process Store, used when no Redis address is configured
// and as a test double.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the cached value for key, if any.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
