package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/models"
)

type siteStore interface {
	LoadSite(ctx context.Context) (models.SiteDocument, error)
	SaveSite(ctx context.Context, doc models.SiteDocument) error
}

// SiteState holds the in-memory site document and publishes every committed version.
// The mutex guards memory only; concurrent operations still resolve last-writer-wins.
type SiteState struct {
	mu          sync.RWMutex
	store       siteStore
	logger      *zap.Logger
	doc         models.SiteDocument
	loaded      bool
	nextSub     int
	subscribers map[int]func(models.SiteDocument)
}

// NewSiteState constructs an unloaded state over store.
func NewSiteState(store siteStore, logger *zap.Logger) *SiteState {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteState{store: store, logger: logger, subscribers: make(map[int]func(models.SiteDocument))}
}

// Load reads the durable document and publishes it.
func (s *SiteState) Load(ctx context.Context) error {
	doc, err := s.store.LoadSite(ctx)
	if err != nil {
		return err
	}
	s.publish(doc)
	return nil
}

// Loaded reports whether a document is available.
func (s *SiteState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a deep copy of the current document.
func (s *SiteState) Snapshot() (models.SiteDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return models.SiteDocument{}, false
	}
	return s.doc.Clone(), true
}

// Commit persists doc as a whole and then makes it the current version.
// The in-memory version is left unchanged when the write fails.
func (s *SiteState) Commit(ctx context.Context, doc models.SiteDocument) error {
	if err := s.store.SaveSite(ctx, doc); err != nil {
		return err
	}
	s.publish(doc)
	return nil
}

// Subscribe registers fn for every future version and returns its cancel function.
func (s *SiteState) Subscribe(fn func(models.SiteDocument)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *SiteState) publish(doc models.SiteDocument) {
	s.mu.Lock()
	s.doc = doc.Clone()
	s.loaded = true
	fns := make([]func(models.SiteDocument), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(doc.Clone())
	}
	s.logger.Debug("site document published", zap.Int("subscribers", len(fns)))
}
