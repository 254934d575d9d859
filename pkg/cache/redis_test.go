package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-core/pkg/config"
)

func TestKeyPrefix(t *testing.T) {
	cases := map[string]string{
		"":            "classroom:",
		"  ":          "classroom:",
		"school":      "school:",
		"school:":     "school:",
		" tenant:a: ": "tenant:a:",
	}
	for in, want := range cases {
		assert.Equal(t, want, KeyPrefix(config.RedisConfig{KeyPrefix: in}), "prefix %q", in)
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1, Timeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis 127.0.0.1:1")
}
