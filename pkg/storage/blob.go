// Package storage holds the blob store: opaque binary payloads addressed by keys that
// are generated per write. The store knows nothing about who references a key.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned by Get for keys that were never written or were deleted.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the contract every blob backend satisfies.
type BlobStore interface {
	// Put stores data under a fresh key. Identical content still yields a new key.
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is idempotent: removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key. Only offline reconciliation should need it.
	Keys(ctx context.Context) ([]string, error)
	// ModTime reports when key was written. Missing keys return ErrBlobNotFound.
	ModTime(ctx context.Context, key string) (time.Time, error)
}

// NewKey returns a fresh blob key.
func NewKey() string {
	return "blob_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidKey reports whether key looks like one produced by NewKey. Backends that map
// keys onto paths refuse anything else.
func ValidKey(key string) bool {
	raw, ok := strings.CutPrefix(key, "blob_")
	if !ok || len(raw) != 32 {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}
