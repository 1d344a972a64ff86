package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/testutil"
)

func staffSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleStaff,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	store := NewSessionStore(client)

	t.Run("save and get round trip", func(t *testing.T) {
		session := staffSession("round-trip", 30*time.Minute)
		require.NoError(t, store.Save(ctx, session))

		retrieved, err := store.Get(ctx, "round-trip")
		require.NoError(t, err)
		assert.Equal(t, session.ID, retrieved.ID)
		assert.Equal(t, session.UserID, retrieved.UserID)
		assert.Equal(t, session.Role, retrieved.Role)
		assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
	})

	t.Run("unknown ID", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("saving an expired session fails", func(t *testing.T) {
		err := store.Save(ctx, staffSession("expired", -time.Minute))
		assert.Error(t, err)
	})

	t.Run("empty ID rejected", func(t *testing.T) {
		err := store.Save(ctx, staffSession("", time.Hour))
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, staffSession("to-delete", time.Hour)))
		require.NoError(t, store.Delete(ctx, "to-delete"))

		_, err := store.Get(ctx, "to-delete")
		assert.Equal(t, ErrNotFound, err)

		// Unknown IDs are a no-op.
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestSessionStoreCustomPrefix(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	store := NewSessionStoreWithPrefix(client, "comandero:sess:")
	require.NoError(t, store.Save(ctx, staffSession("prefixed", time.Hour)))

	val, err := client.Exists(ctx, "comandero:sess:prefixed").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
}
