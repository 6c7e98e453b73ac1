package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/kartverse/storefront/internal/cache"
	"github.com/kartverse/storefront/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProduct struct {
	Name         string  `json:"name"`
	SellingPrice float64 `json:"selling_price"`
}

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "abc")
	stored := cachedProduct{Name: "Desk Lamp", SellingPrice: 999}
	jsonData, err := json.Marshal(stored)
	require.NoError(t, err)

	t.Run("Hit decodes the stored value", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		var result cachedProduct

		mock.ExpectGet(key).SetVal(string(jsonData))

		found, err := redisCache.Get(ctx, key, &result)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, stored, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss is not an error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		var result cachedProduct

		mock.ExpectGet(key).SetErr(redis.Nil)

		found, err := redisCache.Get(ctx, key, &result)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Redis failure surfaces", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		var result cachedProduct

		connErr := errors.New("connection refused")
		mock.ExpectGet(key).SetErr(connErr)

		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, connErr)
	})

	t.Run("Corrupt payload surfaces", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		var result cachedProduct

		mock.ExpectGet(key).SetVal(`{"selling_price": "not_a_number"}`)

		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.HomeKeyPrefix, "sections")
	stored := cachedProduct{Name: "Desk Lamp", SellingPrice: 999}
	jsonData, err := json.Marshal(stored)
	require.NoError(t, err)

	t.Run("Writes with the given TTL", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		mock.ExpectSet(key, jsonData, 5*time.Minute).SetVal("OK")

		err := redisCache.Set(ctx, key, stored, 5*time.Minute)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero TTL falls back to the default", func(t *testing.T) {
		redisCache, mock, cfg := setup(t)

		mock.ExpectSet(key, jsonData, cfg.DefaultTTL).SetVal("OK")

		err := redisCache.Set(ctx, key, stored, 0)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unmarshallable value is rejected before Redis", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.CheckoutKeyPrefix, "user-1")

	t.Run("Removes the key", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		mock.ExpectDel(key).SetVal(1)

		err := redisCache.Delete(ctx, key)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis failure surfaces", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		delErr := errors.New("DEL failed")
		mock.ExpectDel(key).SetErr(delErr)

		err := redisCache.Delete(ctx, key)

		assert.ErrorIs(t, err, delErr)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product:abc", cache.Key(cache.ProductKeyPrefix, "abc"))
	assert.Equal(t, "checkout-session:u1", cache.Key(cache.CheckoutKeyPrefix, "u1"))
	assert.Equal(t, "home:sections", cache.Key(cache.HomeKeyPrefix, "sections"))
}
