package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
)

func TestRedisDisabledWithoutAddr(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop())
	assert.Nil(t, r.Client)
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
	r.Close()

	var missing *Redis
	assert.ErrorIs(t, missing.Ping(context.Background()), ErrRedisDisabled)
}

func TestRedisClientOptions(t *testing.T) {
	assert.Nil(t, clientOptions(config.RedisConfig{}))

	opts := clientOptions(config.RedisConfig{Addr: "cache:6379", DB: 2, PoolSize: 4})
	require.NotNil(t, opts)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 500*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 500*time.Millisecond, opts.ReadTimeout)

	opts = clientOptions(config.RedisConfig{Addr: "cache:6379", TimeoutMillis: 50})
	assert.Equal(t, 50*time.Millisecond, opts.WriteTimeout)
}
