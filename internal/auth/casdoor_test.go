package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	claims *casdoorsdk.Claims
	err    error
}

func (f fakeParser) ParseJwtToken(string) (*casdoorsdk.Claims, error) {
	return f.claims, f.err
}

func TestCasdoorResolver_Resolve(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	admin := fx.Admin("root@example.com")
	users := postgres.NewUserPostgreSQL(db)
	ctx := context.Background()

	t.Run("maps local user", func(t *testing.T) {
		claims := &casdoorsdk.Claims{User: casdoorsdk.User{Email: "root@example.com"}}
		resolver := &CasdoorResolver{parser: fakeParser{claims: claims}, users: users}

		identity, err := resolver.Resolve(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, identity.UserID)
		assert.Equal(t, models.RoleAdmin, identity.Role)
	})

	t.Run("unknown email", func(t *testing.T) {
		claims := &casdoorsdk.Claims{User: casdoorsdk.User{Email: "ghost@example.com"}}
		resolver := &CasdoorResolver{parser: fakeParser{claims: claims}, users: users}

		_, err := resolver.Resolve(ctx, "token")
		assert.ErrorIs(t, err, ErrUnknownUser)
	})

	t.Run("parse failure", func(t *testing.T) {
		resolver := &CasdoorResolver{parser: fakeParser{err: errors.New("bad signature")}, users: users}

		_, err := resolver.Resolve(ctx, "token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
