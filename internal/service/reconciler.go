package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
	"github.com/noah-isme/classroom-core/pkg/jobs"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

const sweepWorkers = 4

// Reconciler garbage-collects blobs that no stored document references.
// It runs offline and is never invoked by the mutating services.
type Reconciler struct {
	site   siteStore
	blobs  storage.BlobStore
	store  *blobManager
	pool   *jobs.Pool
	logger *zap.Logger
	now    func() time.Time
}

// NewReconciler constructs a Reconciler instance.
func NewReconciler(site siteStore, blobs storage.BlobStore, logger *zap.Logger, metrics *MetricsService) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		site:   site,
		blobs:  blobs,
		store:  newBlobManager(blobs, metrics, logger),
		pool:   jobs.NewPool("blob-sweep", jobs.PoolConfig{Workers: sweepWorkers, Logger: logger}),
		logger: logger,
		now:    time.Now,
	}
}

// Sweep lists the blob store and deletes every key the durable site document does not
// reference. Blobs written less than minAge ago are left alone, since an upload in flight
// is unreferenced until its document commits. With dryRun set the orphans are only reported.
func (r *Reconciler) Sweep(ctx context.Context, dryRun bool, minAge time.Duration) (*models.SweepReport, error) {
	doc, err := r.site.LoadSite(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load site document")
	}
	referenced := make(map[string]struct{})
	for _, key := range doc.BlobKeys() {
		referenced[key] = struct{}{}
	}

	keys, err := r.blobs.Keys(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list blobs")
	}
	sort.Strings(keys)

	report := &models.SweepReport{
		DryRun:     dryRun,
		Scanned:    len(keys),
		Referenced: len(referenced),
		Orphans:    []string{},
		Recent:     []string{},
		Deleted:    []string{},
		Failed:     []string{},
	}
	cutoff := r.now().Add(-minAge)
	var tasks []jobs.Task
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		written, err := r.blobs.ModTime(ctx, key)
		if errors.Is(err, storage.ErrBlobNotFound) {
			continue
		}
		if err != nil {
			return nil, appErrors.Storage(err, "failed to stat blob")
		}
		if written.After(cutoff) {
			report.Recent = append(report.Recent, key)
			continue
		}
		report.Orphans = append(report.Orphans, key)
		key := key
		tasks = append(tasks, jobs.Task{ID: key, Run: func(ctx context.Context) error {
			return r.store.release(ctx, "orphan sweep", key)
		}})
	}
	if !dryRun {
		for _, result := range r.pool.Run(ctx, tasks) {
			if result.Err != nil {
				report.Failed = append(report.Failed, result.ID)
				continue
			}
			report.Deleted = append(report.Deleted, result.ID)
		}
	}

	r.logger.Info("blob sweep finished",
		zap.Bool("dry_run", dryRun),
		zap.Int("scanned", report.Scanned),
		zap.Int("orphans", len(report.Orphans)),
		zap.Int("recent", len(report.Recent)),
		zap.Int("deleted", len(report.Deleted)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}
