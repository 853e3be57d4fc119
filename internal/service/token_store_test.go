package service

import (
	"context"
	"testing"
	"time"

	"medical-clinic-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_SaveExistsRevoke(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client, newTestLogger())
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, jwt.AccessToken, userID, "tok", 15*time.Minute))
	assert.True(t, mr.Exists("access_token:"+userID.String()+":tok"))

	ok, err := store.Exists(ctx, jwt.AccessToken, userID, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, jwt.RefreshToken, userID, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Revoke(ctx, jwt.AccessToken, userID, "tok"))
	ok, err = store.Exists(ctx, jwt.AccessToken, userID, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	// revoking twice is fine
	assert.NoError(t, store.Revoke(ctx, jwt.AccessToken, userID, "tok"))
}

func TestTokenStore_RevokeAllKeepsOtherUsers(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client, newTestLogger())
	ctx := context.Background()
	target, other := uuid.New(), uuid.New()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, jwt.AccessToken, target, id, time.Hour))
	}
	require.NoError(t, store.Save(ctx, jwt.RefreshToken, target, "r", time.Hour))
	require.NoError(t, store.Save(ctx, jwt.AccessToken, other, "x", time.Hour))

	require.NoError(t, store.RevokeAll(ctx, target))

	assert.Equal(t, []string{"access_token:" + other.String() + ":x"}, mr.Keys())
}
