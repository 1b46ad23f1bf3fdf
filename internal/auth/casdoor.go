package auth

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

type casdoorTokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// CasdoorResolver verifies tokens issued by Casdoor and maps them to local users by email.
// Roles always come from the local user row.
type CasdoorResolver struct {
	parser casdoorTokenParser
	users  repositories.UserRepository
}

func NewCasdoorResolver(cfg config.CasdoorConfig, users repositories.UserRepository) *CasdoorResolver {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)
	return &CasdoorResolver{parser: client, users: users}
}

func (r *CasdoorResolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := r.parser.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}

	user, err := r.users.GetByEmail(ctx, nil, claims.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return identityFor(user), nil
}

func identityFor(user *models.User) *Identity {
	return &Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}
