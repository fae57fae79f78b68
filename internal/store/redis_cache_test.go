package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisCacheRepository_CacheUnavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("save succeeds and logs the cache failure", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		mem := store.NewMemoryStore()
		cache := store.NewRedisCacheRepository(mem, unreachableRedis(t), time.Minute, zap.New(core))

		err := cache.Save(ctx, newLink("abc123", "https://example.com"))

		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("cache write failed").Len())

		exists, _ := mem.Exists(ctx, "abc123")
		assert.True(t, exists)
	})

	t.Run("get falls through to the store", func(t *testing.T) {
		mem := store.NewMemoryStore()
		require.NoError(t, mem.Save(ctx, newLink("abc123", "https://example.com")))
		cache := store.NewRedisCacheRepository(mem, unreachableRedis(t), time.Minute, zap.NewNop())

		got, err := cache.GetByCode(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.LongURL)
	})

	t.Run("get returns store not found", func(t *testing.T) {
		cache := store.NewRedisCacheRepository(store.NewMemoryStore(), unreachableRedis(t), time.Minute, zap.NewNop())

		got, err := cache.GetByCode(ctx, "missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("exists falls through to the store", func(t *testing.T) {
		mem := store.NewMemoryStore()
		require.NoError(t, mem.Save(ctx, newLink("abc123", "https://example.com")))
		cache := store.NewRedisCacheRepository(mem, unreachableRedis(t), time.Minute, zap.NewNop())

		exists, err := cache.Exists(ctx, "abc123")

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("save keeps the store conflict", func(t *testing.T) {
		mem := store.NewMemoryStore()
		require.NoError(t, mem.Save(ctx, newLink("abc123", "https://example.com")))
		cache := store.NewRedisCacheRepository(mem, unreachableRedis(t), time.Minute, zap.NewNop())

		err := cache.Save(ctx, newLink("abc123", "https://other.com"))

		assert.ErrorIs(t, err, shortener.ErrCodeExists)
	})
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@host:5432/db?sslmode=disable", store.MigrateURLForTest("postgres://u:p@host:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://host/db", store.MigrateURLForTest("postgresql://host/db"))
	assert.Equal(t, "pgx5://host/db", store.MigrateURLForTest("pgx5://host/db"))
}
