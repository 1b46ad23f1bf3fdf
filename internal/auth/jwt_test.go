package auth

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenTTL: time.Hour})
	user := &models.User{ID: 42, Email: "ana@example.com", Role: models.RoleStudent}

	token, expiresAt, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: 42, Email: "ana@example.com", Role: models.RoleStudent}, identity)
	assert.True(t, identity.IsStudent())
	assert.False(t, identity.IsAdmin())
}

func TestJWTService_Rejects(t *testing.T) {
	user := &models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewJWTService(JWTConfig{SecretKey: "one", TokenTTL: time.Hour}).GenerateToken(user)
		require.NoError(t, err)

		_, err = NewJWTService(JWTConfig{SecretKey: "two", TokenTTL: time.Hour}).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenTTL: -time.Minute})
		token, _, err := svc.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewJWTService(JWTConfig{SecretKey: "secret", TokenTTL: time.Hour}).ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"  Bearer  abc  ", "abc", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFormat, tt.header)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestJWTService_RevokedTokensAreRejected(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryCache()
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenTTL: time.Hour}).WithDenylist(NewTokenDenylist(store))
	user := &models.User{ID: 7, Email: "ana@example.com", Role: models.RoleStudent}

	token, _, err := svc.GenerateToken(user)
	require.NoError(t, err)
	other, _, err := svc.GenerateToken(user)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token))

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrRevokedToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Revocation is per token, not per user
	identity, err := svc.Resolve(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)

	assert.ErrorIs(t, svc.Revoke(ctx, "not-a-token"), ErrInvalidToken)
}

func TestTokenDenylist(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryCache()
	denylist := NewTokenDenylist(store)

	require.NoError(t, denylist.Revoke(ctx, "live", time.Now().Add(time.Minute)))
	require.NoError(t, denylist.Revoke(ctx, "stale", time.Now().Add(-time.Minute)))

	revoked, err := denylist.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, store.Has("learning:auth:revoked:live"))

	revoked, err = denylist.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.False(t, store.Has("learning:auth:revoked:stale"))
}

func TestJWTService_RevokeWithoutRedis(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenTTL: time.Hour}).WithDenylist(NewTokenDenylist(cache.NewNoopCache()))

	token, _, err := svc.GenerateToken(&models.User{ID: 3, Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token))
	_, err = svc.Resolve(ctx, token)
	assert.NoError(t, err)
}
