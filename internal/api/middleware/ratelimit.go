package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventscout/chat-service/internal/api/dto"
	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/services/ratelimit"
)

// RateLimitMiddleware gates requests through the fixed-window limiter.
type RateLimitMiddleware struct {
	limiter *ratelimit.Limiter
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware.
func NewRateLimitMiddleware(limiter *ratelimit.Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit returns a gin middleware that admits or rejects the authenticated
// principal. The X-RateLimit-* headers are attached on every outcome,
// including rejections and downstream failures.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Detail: "Authorization header required",
			})
			return
		}

		result := m.limiter.Admit(principal.ID)
		setRateLimitHeaders(c, result)

		if !result.Allowed {
			err := domainerrors.NewRateLimitError(result.Limit, m.limiter.WindowSeconds(), result.ResetAt)
			c.AbortWithStatusJSON(err.HTTPStatus, dto.ErrorResponse{Detail: err.Detail})
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result ratelimit.Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
}
