package store

import (
	"context"
	"sync"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

// MemoryStore is an in-memory implementation of the Store interface,
// primarily intended for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	raw     string
	present bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ ports.Store = (*MemoryStore)(nil)

// Load returns the stored raw token, or core.ErrNoCredential if the slot
// is empty.
func (s *MemoryStore) Load(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.present {
		return "", core.ErrNoCredential
	}
	return s.raw, nil
}

// Save stores the raw token. The last write wins.
func (s *MemoryStore) Save(ctx context.Context, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = raw
	s.present = true
	return nil
}

// Clear empties the slot.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = ""
	s.present = false
	return nil
}
