package otp_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Kyz7/wip/internal/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	rc, err := otp.NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer rc.Close()

	store := otp.NewRedisStore(rc)
	email := "redis-store-test@b.com"
	_, _ = store.Delete(ctx, email)

	t.Run("Success - Miss returns nil entry", func(t *testing.T) {
		entry, err := store.Get(ctx, email)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("Success - Set, get and single delete", func(t *testing.T) {
		createdAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, store.Set(ctx, email, &otp.Entry{Code: "123456", CreatedAt: createdAt}, time.Minute))

		entry, err := store.Get(ctx, email)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "123456", entry.Code)
		assert.True(t, createdAt.Equal(entry.CreatedAt))

		removed, err := store.Delete(ctx, email)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.Delete(ctx, email)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("Success - Conditional delete only removes the held code", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, email, &otp.Entry{Code: "654321", CreatedAt: time.Now()}, time.Minute))

		removed, err := store.DeleteIfCode(ctx, email, "123456")
		require.NoError(t, err)
		assert.False(t, removed)

		removed, err = store.DeleteIfCode(ctx, email, "654321")
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("Success - Works behind the service", func(t *testing.T) {
		svc, _, _ := newTestService(t, store)

		code, err := svc.Send(ctx, email)
		require.NoError(t, err)
		assert.NoError(t, svc.Verify(ctx, email, code))
	})
}
