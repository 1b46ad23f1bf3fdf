package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
)

// AuthMiddleware resolves the bearer token into an auth.Identity and stores it
// in the gin context. Requests without a valid token stop here with 401.
func AuthMiddleware(resolver auth.IdentityResolver, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
				Details: "Authorization header must be 'Bearer <token>'",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			resp := ErrorResponse{Message: "Authentication failed", Details: "Invalid token", Code: "INVALID_TOKEN"}
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				resp.Details, resp.Code = "Token has expired", "EXPIRED_TOKEN"
			case errors.Is(err, auth.ErrRevokedToken):
				resp.Details, resp.Code = "Token has been revoked", "REVOKED_TOKEN"
			case errors.Is(err, auth.ErrUnknownUser):
				resp.Details = "Token does not belong to a known user"
			case !errors.Is(err, auth.ErrInvalidToken):
				logger.LogError(err, "Identity resolution failed", "request_id", utils.GetRequestID(c))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
			return
		}

		c.Set(identityKey, *identity)
		c.Set(userIDKey, identity.UserID)
		c.Next()
	}
}

// RequireRole lets through only callers with the given role
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
				Code:    "UNAUTHORIZED",
			})
			return
		}
		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden - insufficient permissions",
				Details: map[string]interface{}{"required_role": role},
				Code:    "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity stored by AuthMiddleware
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
