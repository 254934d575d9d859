package service

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

// blobManager wraps the blob store with the upload and cleanup policies shared by all services.
type blobManager struct {
	store   storage.BlobStore
	metrics *MetricsService
	logger  *zap.Logger
}

func newBlobManager(store storage.BlobStore, metrics *MetricsService, logger *zap.Logger) *blobManager {
	return &blobManager{store: store, metrics: metrics, logger: logger}
}

// put uploads a file on the primary path. Failures propagate as storage errors.
func (b *blobManager) put(ctx context.Context, file *models.FileUpload) (string, error) {
	key, err := b.store.Put(ctx, file.Data)
	b.metrics.RecordBlobOperation("put", err)
	if err != nil {
		return "", appErrors.Storage(err, "failed to store file")
	}
	return key, nil
}

// upload stores every present file in order. On failure the keys already written are discarded,
// so the caller sees either all keys or none.
func (b *blobManager) upload(ctx context.Context, files ...*models.FileUpload) ([]string, error) {
	keys := make([]string, len(files))
	for i, file := range files {
		if !file.Present() {
			continue
		}
		key, err := b.put(ctx, file)
		if err != nil {
			b.discard(ctx, keys[:i]...)
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}

// discard removes blobs that were uploaded for a write that never committed.
func (b *blobManager) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		err := b.store.Delete(ctx, key)
		b.metrics.RecordBlobOperation("delete", err)
		if err != nil {
			b.logger.Warn("failed to discard uncommitted blob", zap.String("key", key), zap.Error(err))
		}
	}
}

// release deletes superseded blobs after a commit. Each key is an independent sub-task:
// failures are logged, counted and returned combined, never short-circuiting the rest.
func (b *blobManager) release(ctx context.Context, reason string, keys ...string) error {
	var errs error
	for _, key := range keys {
		if key == "" {
			continue
		}
		err := b.store.Delete(ctx, key)
		b.metrics.RecordBlobOperation("delete", err)
		if err != nil {
			b.metrics.RecordCleanupFailure()
			b.logger.Warn("failed to release blob",
				zap.String("reason", reason),
				zap.String("key", key),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("delete blob %s: %w", key, err))
		}
	}
	return errs
}
