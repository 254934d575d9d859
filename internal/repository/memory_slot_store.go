package repository

import (
	"context"
	"sync"
)

// MemorySlotStore keeps slots in process memory.
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlotStore constructs an empty in-memory slot store.
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string][]byte)}
}

// Read returns a copy of the slot payload.
func (s *MemorySlotStore) Read(ctx context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), payload...), nil
}

// Write replaces the slot payload.
func (s *MemorySlotStore) Write(ctx context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = append([]byte(nil), payload...)
	return nil
}

// Clear removes the slot.
func (s *MemorySlotStore) Clear(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}

// Close is a no-op.
func (s *MemorySlotStore) Close() error { return nil }
