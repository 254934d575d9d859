package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/repository"
	"github.com/noah-isme/classroom-core/internal/service"
	"github.com/noah-isme/classroom-core/pkg/cache"
	"github.com/noah-isme/classroom-core/pkg/config"
	"github.com/noah-isme/classroom-core/pkg/database"
	"github.com/noah-isme/classroom-core/pkg/logger"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

// app bundles the wired services for a single command invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	slots   repository.SlotStore
	docs    *repository.DocumentRepository
	blobs   storage.BlobStore
	metrics *service.MetricsService
	state   *service.SiteState
	site    *service.SiteService
	auth    *service.AuthService
	session *service.Session
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	slots, err := openSlotStore(ctx, cfg, logr)
	if err != nil {
		return nil, err
	}
	blobs, err := openBlobStore(cfg)
	if err != nil {
		_ = slots.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logr,
		slots:   slots,
		docs:    repository.NewDocumentRepository(slots),
		blobs:   blobs,
		metrics: service.NewMetricsService(),
		session: service.NewSession(),
	}
	ids := service.NewIDGenerator()
	a.state = service.NewSiteState(a.docs, logr)
	a.site = service.NewSiteService(a.state, a.docs, blobs, ids, nil, logr, a.metrics)
	a.auth = service.NewAuthService(a.docs, repository.NewSessionRepository(slots, cfg.Auth.SessionSecret), a.state, blobs, ids, nil, logr, a.metrics, service.AuthConfig{
		AdminEmail:        cfg.Auth.AdminEmail,
		BootstrapPassword: cfg.Auth.BootstrapPassword,
		LoginDelay:        cfg.Auth.LoginDelay,
	})

	if err := a.state.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("load site document: %w", err)
	}
	if _, err := a.auth.Restore(ctx, a.session); err != nil {
		a.close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return a, nil
}

func openSlotStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.SlotStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return repository.NewMemorySlotStore(), nil
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return repository.NewRedisSlotStore(client, cache.KeyPrefix(cfg.Redis), logr), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := repository.NewPostgresSlotStore(db, cfg.Database.Table)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("prepare slot table: %w", err)
		}
		return store, nil
	default:
		db, err := database.NewBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt file: %w", err)
		}
		store, err := repository.NewBoltSlotStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil
	}
}

func openBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.Blob.Driver == config.BlobDriverMemory {
		return storage.NewMemoryBlobStore(), nil
	}
	store, err := storage.NewFileBlobStore(cfg.Blob.Dir)
	if err != nil {
		return nil, fmt.Errorf("open blob dir: %w", err)
	}
	return store, nil
}

func (a *app) close() {
	if err := a.slots.Close(); err != nil {
		a.logger.Warn("failed to close document store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
