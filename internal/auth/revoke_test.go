package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidelist/tidelist/internal/auth"
)

func newRevocationList(t *testing.T) *auth.RedisRevocationList {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewRedisRevocationList(client)
}

func TestRevocationList(t *testing.T) {
	ctx := context.Background()
	list := newRevocationList(t)

	revoked, err := list.IsRevoked(ctx, "jti-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-a", time.Now().Add(time.Hour)))
	revoked, err = list.IsRevoked(ctx, "jti-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokeAlreadyExpiredTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	list := newRevocationList(t)

	require.NoError(t, list.Revoke(ctx, "jti-b", time.Now().Add(-time.Minute)))
	revoked, err := list.IsRevoked(ctx, "jti-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeWithoutExpiryPersists(t *testing.T) {
	ctx := context.Background()
	list := newRevocationList(t)

	require.NoError(t, list.Revoke(ctx, "jti-c", time.Time{}))
	revoked, err := list.IsRevoked(ctx, "jti-c")
	require.NoError(t, err)
	assert.True(t, revoked)
}
