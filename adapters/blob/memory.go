package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// MemoryStore is an in-memory AudioStore for tests and development.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// Ensure MemoryStore implements the AudioStore interface
var _ repositories.AudioStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put implements repositories.AudioStore
func (s *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("invalid audio key %q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

// Get implements repositories.AudioStore
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("audio blob %s not found", key)
	}
	return data, nil
}

// Delete implements repositories.AudioStore
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Len reports the number of stored blobs, for test assertions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
