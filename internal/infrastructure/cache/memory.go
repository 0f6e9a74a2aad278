package cache

import (
	"context"
	"sync"
)

// MemoryFlagStore is the single-process fallback used when Redis is disabled.
// Toggles only apply to the local instance.
type MemoryFlagStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewMemoryFlagStore creates an empty in-memory flag store
func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{flags: make(map[string]bool)}
}

// GetBool reads a boolean flag, returning def when the flag is unset
func (s *MemoryFlagStore) GetBool(_ context.Context, key string, def bool) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.flags[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetBool writes a boolean flag
func (s *MemoryFlagStore) SetBool(_ context.Context, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = value
	return nil
}
