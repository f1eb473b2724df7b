package contentcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, s
}

func newTestMemoryStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoresRoundTrip(t *testing.T) {
	redisStore, _ := newTestRedisStore(t)
	stores := map[string]Store{
		"memory": newTestMemoryStore(t),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "key", []byte(`{"a":1}`), time.Minute))

			value, ok, err := store.Get(ctx, "key")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a":1}`, string(value))
		})
	}
}

func TestRedisStoreExpires(t *testing.T) {
	store, s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("v"), time.Minute))
	assert.True(t, s.Exists(redisKeyPrefix+"key"))

	s.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorePing(t *testing.T) {
	store, _ := newTestRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore("not-a-redis-url")
	require.Error(t, err)
}
