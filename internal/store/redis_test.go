package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runaway-service/internal/models"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	st, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, mr
}

func TestRedisStore_NotFound(t *testing.T) {
	st, _ := newTestRedisStore(t)
	_, err := st.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	st, mr := newTestRedisStore(t)

	require.NoError(t, st.Save(ctx, okResult()))
	assert.True(t, mr.Exists(DefaultResultKey))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, okResult(), got)

	errResult := models.PersistedResult{Status: models.StatusError, Message: "no data"}
	require.NoError(t, st.Save(ctx, errResult))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, errResult, got)
}

func TestRedisStore_Corrupt(t *testing.T) {
	st, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set(DefaultResultKey, "not json"))

	_, err := st.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedisStore_CustomKey(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	st := NewRedisStoreWithClient(client, "cells:result")
	defer st.Close()

	require.NoError(t, st.Save(ctx, okResult()))
	assert.True(t, mr.Exists("cells:result"))
	assert.False(t, mr.Exists(DefaultResultKey))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}
