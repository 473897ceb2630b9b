package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/eventscout/chat-service/internal/api/middleware"
	"github.com/eventscout/chat-service/internal/domain/models"
	"github.com/eventscout/chat-service/internal/services/ratelimit"
)

func setupRateLimitRouter(limiter *ratelimit.Limiter, principal models.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter)

	// The principal is injected directly; auth is covered separately.
	router.GET("/limited", func(c *gin.Context) {
		middleware.SetPrincipal(c, principal)
	}, rateLimitMw.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestLimit_AdmitsWithinQuota(t *testing.T) {
	limiter := ratelimit.NewLimiter(3, time.Minute)
	router := setupRateLimitRouter(limiter, models.NewAuthenticated("alice"))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestLimit_RejectsOverQuota(t *testing.T) {
	limiter := ratelimit.NewLimiter(2, time.Minute)
	router := setupRateLimitRouter(limiter, models.NewAuthenticated("alice"))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/limited", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/limited", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded. Maximum 2 requests per 60 seconds.")
}

func TestLimit_HeadersPresentOnEveryOutcome(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	router := setupRateLimitRouter(limiter, models.NewAuthenticated("alice"))

	// Admitted request
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	// Rejected request still carries the headers
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestLimit_RemainingCountsDown(t *testing.T) {
	limiter := ratelimit.NewLimiter(3, time.Minute)
	router := setupRateLimitRouter(limiter, models.NewAuthenticated("alice"))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		assert.Equal(t, fmt.Sprintf("%d", 2-i), w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestLimit_MissingPrincipalRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.NewLimiter(10, time.Minute)
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter)

	router := gin.New()
	router.GET("/limited", rateLimitMw.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLimit_PrincipalsHaveSeparateQuotas(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)

	alice := setupRateLimitRouter(limiter, models.NewAuthenticated("alice"))
	bob := setupRateLimitRouter(limiter, models.NewAuthenticated("bob"))

	w := httptest.NewRecorder()
	alice.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	alice.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Bob shares the limiter but not the window.
	w = httptest.NewRecorder()
	bob.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
