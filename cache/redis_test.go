package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"routeplug/config"
)

func TestNewRedis_DisabledWithoutHost(t *testing.T) {
	t.Parallel()

	client, err := NewRedis(fxtest.NewLifecycle(t), config.Config{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestRedisOptions(t *testing.T) {
	t.Parallel()

	opts, ok := redisOptions(config.Config{RedisHost: " cache ", RedisPort: 6380, RedisScheme: "rediss", RedisUser: "u"})
	require.True(t, ok)
	require.Equal(t, "cache:6380", opts.Addr)
	require.Equal(t, "u", opts.Username)
	require.NotNil(t, opts.TLSConfig)

	opts, ok = redisOptions(config.Config{RedisHost: "cache", RedisPort: 6379, RedisScheme: "redis"})
	require.True(t, ok)
	require.Nil(t, opts.TLSConfig)
}
