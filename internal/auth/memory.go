package auth

import (
	"context"
	"sync"
)

// MemorySessionStore keeps the administrator flag in memory.
type MemorySessionStore struct {
	mu  sync.Mutex
	set bool
}

func (m *MemorySessionStore) Get(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set, nil
}

func (m *MemorySessionStore) Set(context.Context) error {
	m.mu.Lock()
	m.set = true
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Clear(context.Context) error {
	m.mu.Lock()
	m.set = false
	m.mu.Unlock()
	return nil
}
