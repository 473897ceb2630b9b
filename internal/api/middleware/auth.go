// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/eventscout/chat-service/internal/api/dto"
	"github.com/eventscout/chat-service/internal/domain/models"
	"github.com/eventscout/chat-service/internal/pkg/identity"
)

const principalContextKey = "principal"

// AuthMiddleware authenticates requests by verifying the Bearer token.
type AuthMiddleware struct {
	verifier identity.Verifier
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(verifier identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate returns a gin middleware that resolves the request principal
// and stores it in the context for downstream handlers. Auth failures are
// rejected before the rate limiter runs, so an invalid token does not
// consume quota.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Detail: "Authorization header required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Detail: "Invalid authorization header format. Expected: Bearer <token>",
			})
			return
		}

		principal, err := m.verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn().Err(err).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Detail: "Invalid authentication token",
			})
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the gin context.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	if v, exists := c.Get(principalContextKey); exists {
		if p, ok := v.(models.Principal); ok {
			return p, true
		}
	}
	return models.Principal{}, false
}

// SetPrincipal stores a principal on the context. Used by tests.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalContextKey, p)
}
