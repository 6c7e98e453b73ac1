package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/kartverse/storefront/internal/cache"
	"github.com/kartverse/storefront/internal/checkout"
	"github.com/kartverse/storefront/internal/config"
	repository "github.com/kartverse/storefront/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRepo(t *testing.T) (repository.CheckoutSessionRepository, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	store := cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: 10 * time.Minute})

	return repository.NewCheckoutSessionRepo(store), mock
}

func TestCheckoutSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	key := "checkout-session:" + userID.String()

	t.Run("Missing session returns nil", func(t *testing.T) {
		repo, mock := newSessionRepo(t)

		mock.ExpectGet(key).RedisNil()

		session, err := repo.GetSession(ctx, userID)

		require.NoError(t, err)
		assert.Nil(t, session)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stored session is decoded with its gate state", func(t *testing.T) {
		repo, mock := newSessionRepo(t)

		stored := checkout.NewSession(userID)
		require.True(t, stored.Gate.TryEnter(checkout.SectionAddress))
		stored.Placing = true
		data, err := json.Marshal(stored)
		require.NoError(t, err)

		mock.ExpectGet(key).SetVal(string(data))

		session, err := repo.GetSession(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, checkout.SectionAddress, session.Gate.Active())
		assert.True(t, session.Placing)
	})

	t.Run("Save writes with the session TTL", func(t *testing.T) {
		repo, mock := newSessionRepo(t)

		mock.Regexp().ExpectSet(key, `.*"active_section":"new-address".*`, 30*time.Minute).SetVal("OK")

		session := checkout.NewSession(userID)
		require.True(t, session.Gate.TryEnter(checkout.SectionNewAddress))

		err := repo.SaveSession(ctx, session)

		require.NoError(t, err)
		assert.False(t, session.UpdatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete removes the key", func(t *testing.T) {
		repo, mock := newSessionRepo(t)

		mock.ExpectDel(key).SetVal(1)

		err := repo.DeleteSession(ctx, userID)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Corrupt payload surfaces an error", func(t *testing.T) {
		repo, mock := newSessionRepo(t)

		mock.ExpectGet(key).SetVal(`{"active_section":`)

		session, err := repo.GetSession(ctx, userID)

		assert.Nil(t, session)
		assert.Error(t, err)
	})
}
