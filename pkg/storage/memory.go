package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryBlob struct {
	data    []byte
	written time.Time
}

// MemoryBlobStore keeps blobs in process memory. Used by tests and ephemeral runs.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
	now   func() time.Time
}

// NewMemoryBlobStore returns an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]memoryBlob), now: time.Now}
}

func (s *MemoryBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	key := NewKey()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.mu.Lock()
	s.blobs[key] = memoryBlob{data: buf, written: s.now()}
	s.mu.Unlock()
	return key, nil
}

func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	buf := make([]byte, len(blob.data))
	copy(buf, blob.data)
	return buf, nil
}

func (s *MemoryBlobStore) ModTime(ctx context.Context, key string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return time.Time{}, ErrBlobNotFound
	}
	return blob.written, nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryBlobStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.blobs))
	for key := range s.blobs {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

// Len reports how many blobs are stored.
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
