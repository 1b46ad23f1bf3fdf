package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type authService struct {
	repo   repositories.Repository
	tokens *auth.JWTService
	logger *ServiceLogger
}

func NewAuthService(deps Dependencies, tokens *auth.JWTService) AuthService {
	return &authService{
		repo:   deps.Repo,
		tokens: tokens,
		logger: deps.serviceLogger("auth"),
	}
}

// Login verifies the password and issues an access token. Unknown emails and
// wrong passwords produce the same error.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (resp *LoginResponse, err error) {
	op := s.logger.WithOperation(ctx, "auth.login", 0)
	defer func() { op.LogResult(0, "user", err) }()

	user, err := s.repo.User().GetByEmail(ctx, nil, normalizeEmail(req.Email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !checkPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Me(ctx context.Context, identity auth.Identity) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, identity.UserID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "get user")
	}
	return user, nil
}

// Logout revokes the caller's access token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, identity auth.Identity, token string) (err error) {
	op := s.logger.WithOperation(ctx, "auth.logout", identity.UserID)
	defer func() { op.LogResult(identity.UserID, "user", err) }()

	return s.tokens.Revoke(ctx, token)
}
