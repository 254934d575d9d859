package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileBlobStore persists blobs on disk, one file per key under a base directory.
type FileBlobStore struct {
	baseDir string
}

// NewFileBlobStore ensures the base directory exists and returns a handle.
func NewFileBlobStore(baseDir string) (*FileBlobStore, error) {
	if baseDir == "" {
		baseDir = "./data/blobs"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &FileBlobStore{baseDir: baseDir}, nil
}

// Put writes data under a fresh key. The file is written to a temp name and renamed
// so readers never see a partial blob.
func (s *FileBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	key := NewKey()
	path := s.resolve(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit blob file: %w", err)
	}
	return key, nil
}

// Get reads the blob stored under key.
func (s *FileBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if !ValidKey(key) {
		return nil, ErrBlobNotFound
	}
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob file: %w", err)
	}
	return data, nil
}

// Delete removes a stored blob if present.
func (s *FileBlobStore) Delete(ctx context.Context, key string) error {
	if !ValidKey(key) {
		return nil
	}
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob file: %w", err)
	}
	return nil
}

// ModTime returns the file modification time of key.
func (s *FileBlobStore) ModTime(ctx context.Context, key string) (time.Time, error) {
	if !ValidKey(key) {
		return time.Time{}, ErrBlobNotFound
	}
	info, err := os.Stat(s.resolve(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, ErrBlobNotFound
		}
		return time.Time{}, fmt.Errorf("stat blob file: %w", err)
	}
	return info.ModTime(), nil
}

// Keys lists stored blob keys in lexical order.
func (s *FileBlobStore) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list blob directory: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !ValidKey(entry.Name()) {
			continue
		}
		keys = append(keys, entry.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

// Path exposes the on-disk path for a key (useful for debugging).
func (s *FileBlobStore) Path(key string) string {
	return s.resolve(key)
}

func (s *FileBlobStore) resolve(key string) string {
	return filepath.Join(s.baseDir, key)
}
