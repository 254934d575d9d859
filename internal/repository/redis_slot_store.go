package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSlotStore stores each slot as a plain string key under a prefix, without expiry.
type RedisSlotStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisSlotStore constructs a Redis backed slot store.
func NewRedisSlotStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisSlotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSlotStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisSlotStore) key(slot string) string {
	return s.prefix + slot
}

// Read fetches the slot payload.
func (s *RedisSlotStore) Read(ctx context.Context, slot string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key(slot), err)
	}
	return raw, nil
}

// Write replaces the slot payload.
func (s *RedisSlotStore) Write(ctx context.Context, slot string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(slot), err)
	}
	return nil
}

// Clear deletes the slot key.
func (s *RedisSlotStore) Clear(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.key(slot)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", s.key(slot), err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisSlotStore) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil {
		s.logger.Warn("failed to close redis client", zap.Error(err))
		return err
	}
	return nil
}
