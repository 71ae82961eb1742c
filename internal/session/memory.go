package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryRepository keeps sessions in a mutex-guarded map. Values are stored
// as JSON so callers cannot alias the stored record through retained pointers.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string][]byte)}
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	b, ok := m.store[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryRepository) Put(_ context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.store[s.ID] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
