package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedis creates a miniredis instance and returns a connected client.
func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := DialRedis(RedisOptions{
		URL:         fmt.Sprintf("redis://%s", mr.Addr()),
		DialTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

func TestDialRedis(t *testing.T) {
	t.Run("connection failure", func(t *testing.T) {
		_, err := DialRedis(RedisOptions{
			URL:         "redis://localhost:99999",
			DialTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := DialRedis(RedisOptions{URL: "invalid://url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

func TestRedisClientOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		ro, err := RedisOptions{}.clientOptions()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", ro.Addr)
		assert.Equal(t, DefaultRedisTimeout, ro.DialTimeout)
		assert.Equal(t, DefaultRedisTimeout, ro.ReadTimeout)
		assert.Equal(t, DefaultRedisTimeout, ro.WriteTimeout)
		assert.Nil(t, ro.TLSConfig)
	})

	t.Run("overrides", func(t *testing.T) {
		ro, err := RedisOptions{
			URL:         "rediss://cache:6380/2",
			DialTimeout: time.Second,
			IOTimeout:   250 * time.Millisecond,
		}.clientOptions()
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", ro.Addr)
		assert.Equal(t, 2, ro.DB)
		assert.NotNil(t, ro.TLSConfig)
		assert.Equal(t, time.Second, ro.DialTimeout)
		assert.Equal(t, 250*time.Millisecond, ro.ReadTimeout)
		assert.Equal(t, 250*time.Millisecond, ro.WriteTimeout)
	})
}

func TestRedis(t *testing.T) {
	client, _ := setupRedis(t)
	testRepository(t, NewRedis[record](client, "taskdef", "record", nil))
}

func TestRedisKeyLayout(t *testing.T) {
	client, mr := setupRedis(t)
	repo := NewRedis[record](client, "taskdef", "task", nil)

	require.NoError(t, repo.Save(context.Background(), "TASK_a_1", record{ID: "TASK_a_1", Name: "a"}))

	assert.True(t, mr.Exists("taskdef:task"))
	assert.JSONEq(t, `{"id":"TASK_a_1","name":"a"}`, mr.HGet("taskdef:task", "TASK_a_1"))
}

func TestRedisNamespacesAreIsolated(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	tasks := NewRedis[record](client, "taskdef", "task", nil)
	sources := NewRedis[record](client, "taskdef", "data_source", nil)

	require.NoError(t, tasks.Save(ctx, "id1", record{ID: "id1"}))
	require.NoError(t, sources.Save(ctx, "id1", record{ID: "id1"}))
	require.NoError(t, tasks.DeleteAll(ctx))

	_, err := sources.Load(ctx, "id1")
	assert.NoError(t, err)
}

func TestRedisCorruptValue(t *testing.T) {
	client, mr := setupRedis(t)
	repo := NewRedis[record](client, "", "task", nil)

	mr.HSet("task", "bad", "{not json")

	_, err := repo.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = repo.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode task bad")
}
