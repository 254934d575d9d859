package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/classroom-core/pkg/config"
)

const defaultKeyPrefix = "classroom:"

// KeyPrefix returns the namespace for slot keys. It always ends with a colon so slot
// names never run into the prefix.
func KeyPrefix(cfg config.RedisConfig) string {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		return defaultKeyPrefix
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix
}

// NewRedis returns a client for the slot store that has answered a ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,

		// SET of a whole document is idempotent.
		MaxRetries: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s db %d: %w", client.Options().Addr, cfg.DB, err)
	}
	return client, nil
}
