package cache

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidalink/telemed/pkg/config"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	parts := strings.Split(mr.Addr(), ":")
	port, err := strconv.Atoi(parts[1])
	require.NoError(t, err)

	client, err := NewRedis(&config.RedisConfig{
		Host:     parts[0],
		Port:     port,
		PoolSize: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestRedisClient_SetGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))

	err := client.Set(ctx, "dashboard:doctor:doc-1", `{"na_fila":2}`, time.Minute)
	require.NoError(t, err)

	value, err := client.Get(ctx, "dashboard:doctor:doc-1")
	require.NoError(t, err)
	assert.Equal(t, `{"na_fila":2}`, value)
}

func TestRedisClient_GetMiss(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestRedisClient_Del(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k1", "v1", 0))
	require.NoError(t, client.Set(ctx, "k2", "v2", 0))

	require.NoError(t, client.Del(ctx, "k1", "k2"))
	assert.False(t, mr.Exists("k1"))
	assert.False(t, mr.Exists("k2"))
}
