package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, prefix string) (StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStateStore(client, prefix), mr
}

func TestRedisStateStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, "")

	val, err := store.Get(ctx, CounterKey)
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set(ctx, CounterKey, []byte(`{"total":1}`), time.Second))
	val, err = store.Get(ctx, CounterKey)
	require.NoError(t, err)
	assert.Equal(t, `{"total":1}`, string(val))

	ok, err := store.Exists(ctx, CounterKey)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	ok, err = store.Exists(ctx, CounterKey)
	require.NoError(t, err)
	assert.False(t, ok)
	val, err = store.Get(ctx, CounterKey)
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStateStore_NoTTLAndDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, "")
	key := RevokedSessionKey("abc")

	require.NoError(t, store.Set(ctx, key, []byte("1"), 0))
	require.NoError(t, store.Set(ctx, CounterKey, []byte("2"), -time.Second))
	assert.Zero(t, mr.TTL(key))
	assert.Zero(t, mr.TTL(CounterKey))

	mr.FastForward(24 * time.Hour)
	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, key))
	ok, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, key))
}

func TestRedisStateStore_Prefix(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, "bukber:")

	require.NoError(t, store.Set(ctx, CounterKey, []byte("3"), time.Minute))
	assert.True(t, mr.Exists("bukber:"+CounterKey))
	assert.False(t, mr.Exists(CounterKey))

	got, err := mr.Get("bukber:" + CounterKey)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestRedisStateStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, "")
	mr.Close()

	_, err := store.Get(ctx, CounterKey)
	assert.Error(t, err)
	_, err = store.Exists(ctx, CounterKey)
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, CounterKey, []byte("1"), time.Second))
}
