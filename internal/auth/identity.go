package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
	ErrUnknownUser   = errors.New("token subject is not a known user")
	ErrRevokedToken  = fmt.Errorf("%w: token revoked", ErrInvalidToken)
)

// Identity is the authenticated caller. It is passed explicitly to every
// operation that depends on who is asking.
type Identity struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

func (i Identity) IsStudent() bool {
	return i.Role == models.RoleStudent
}

// IdentityResolver turns a bearer token into an Identity
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", ErrInvalidFormat
	}
	return strings.TrimSpace(token), nil
}
