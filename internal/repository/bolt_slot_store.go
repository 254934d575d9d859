package repository

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
)

const defaultBoltBucket = "classroom"

// BoltSlotStore keeps every slot as one key inside a single bbolt bucket.
type BoltSlotStore struct {
	db     *bbolt.DB
	bucket []byte
}

// NewBoltSlotStore ensures the bucket exists and wraps db.
func NewBoltSlotStore(db *bbolt.DB) (*BoltSlotStore, error) {
	bucket := []byte(defaultBoltBucket)
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}
	return &BoltSlotStore{db: db, bucket: bucket}, nil
}

// Read returns the stored payload for slot.
func (s *BoltSlotStore) Read(ctx context.Context, slot string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return ErrSlotEmpty
		}
		v := b.Get([]byte(slot))
		if v == nil {
			return ErrSlotEmpty
		}
		// v is only valid for the life of the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, err
		}
		return nil, fmt.Errorf("bolt read %s: %w", slot, err)
	}
	return out, nil
}

// Write replaces the payload for slot.
func (s *BoltSlotStore) Write(ctx context.Context, slot string, payload []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(slot), payload)
	})
	if err != nil {
		return fmt.Errorf("bolt write %s: %w", slot, err)
	}
	return nil
}

// Clear deletes slot; clearing a missing slot succeeds.
func (s *BoltSlotStore) Clear(ctx context.Context, slot string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(slot))
	})
	if err != nil {
		return fmt.Errorf("bolt clear %s: %w", slot, err)
	}
	return nil
}

// Close closes the underlying database file.
func (s *BoltSlotStore) Close() error {
	return s.db.Close()
}
