package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/classroom-core/internal/models"
)

// DocumentRepository persists the site document and the user list as JSON slots.
// Both are always written in full; the last writer wins.
type DocumentRepository struct {
	store SlotStore
}

// NewDocumentRepository constructs a document repository over store.
func NewDocumentRepository(store SlotStore) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// LoadSite returns the persisted site document, or the seed document when none exists.
func (r *DocumentRepository) LoadSite(ctx context.Context) (models.SiteDocument, error) {
	raw, err := r.store.Read(ctx, SlotSite)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return models.DefaultSiteDocument(), nil
		}
		return models.SiteDocument{}, fmt.Errorf("read site document: %w", err)
	}
	var doc models.SiteDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.SiteDocument{}, fmt.Errorf("decode site document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// SaveSite overwrites the site document.
func (r *DocumentRepository) SaveSite(ctx context.Context, doc models.SiteDocument) error {
	doc = doc.Clone()
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode site document: %w", err)
	}
	if err := r.store.Write(ctx, SlotSite, payload); err != nil {
		return fmt.Errorf("write site document: %w", err)
	}
	return nil
}

// LoadUsers returns the persisted user list, empty when none exists.
func (r *DocumentRepository) LoadUsers(ctx context.Context) ([]models.User, error) {
	raw, err := r.store.Read(ctx, SlotUsers)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("read users: %w", err)
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	for i := range users {
		if users[i].Enrollments == nil {
			users[i].Enrollments = []models.Enrollment{}
		}
	}
	return users, nil
}

// SaveUsers overwrites the user list.
func (r *DocumentRepository) SaveUsers(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := r.store.Write(ctx, SlotUsers, payload); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}
