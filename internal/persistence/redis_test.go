package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/freelance-marketplace/internal/config"
)

func TestRedisOptions(t *testing.T) {
	t.Run("fields", func(t *testing.T) {
		opts, err := redisOptions(config.RedisConfig{Addr: "cache:6379", Password: "pw", DB: 2})
		require.NoError(t, err)
		assert.Equal(t, "cache:6379", opts.Addr)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("url wins over fields", func(t *testing.T) {
		opts, err := redisOptions(config.RedisConfig{URL: "redis://:secret@broker:6380/3", Addr: "ignored:1"})
		require.NoError(t, err)
		assert.Equal(t, "broker:6380", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 3, opts.DB)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := redisOptions(config.RedisConfig{URL: "http://nope"})
		assert.Error(t, err)
	})
}

func TestNewRedisToleratesUnreachableServer(t *testing.T) {
	r, err := NewRedis(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(r.Close)
	assert.Error(t, r.Ping(context.Background()))
}

func TestNewRedisRejectsMalformedURL(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{URL: "://"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
