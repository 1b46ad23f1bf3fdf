package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
)

// TokenDenylist remembers revoked token ids until the tokens expire on their own
type TokenDenylist struct {
	cache cache.CacheService
}

func NewTokenDenylist(c cache.CacheService) *TokenDenylist {
	return &TokenDenylist{cache: c}
}

func revokedTokenKey(tokenID string) string {
	return "learning:auth:revoked:" + tokenID
}

// Revoke denylists the token id. Tokens that already expired are left alone.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.cache.Set(ctx, revokedTokenKey(tokenID), expiresAt.Unix(), ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var expiresAt int64
	err := d.cache.Get(ctx, revokedTokenKey(tokenID), &expiresAt)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, cache.ErrCacheMiss):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
}
