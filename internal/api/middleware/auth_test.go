// Package middleware_test provides unit tests for the API middleware.
package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscout/chat-service/internal/api/middleware"
	"github.com/eventscout/chat-service/internal/domain/models"
	"github.com/eventscout/chat-service/internal/pkg/identity"
)

// stubVerifier accepts a single token and maps it to a fixed principal.
type stubVerifier struct {
	token     string
	principal models.Principal
}

func (v *stubVerifier) Verify(ctx context.Context, token string) (models.Principal, error) {
	if token == v.token {
		return v.principal, nil
	}
	return models.Principal{}, identity.ErrInvalidToken
}

func setupAuthRouter(verifier identity.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authMw := middleware.NewAuthMiddleware(verifier)
	router.GET("/protected", authMw.Authenticate(), func(c *gin.Context) {
		principal, _ := middleware.GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"principal": principal.ID})
	})
	return router
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["detail"]
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	router := setupAuthRouter(&stubVerifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header required", detailOf(t, w))
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	router := setupAuthRouter(&stubVerifier{})

	cases := []string{"sometoken", "Basic abc123", "Bearer "}
	for _, header := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Equal(t, "Invalid authorization header format. Expected: Bearer <token>", detailOf(t, w))
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	router := setupAuthRouter(&stubVerifier{token: "good-token"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid authentication token", detailOf(t, w))
}

func TestAuthenticate_ValidTokenSetsPrincipal(t *testing.T) {
	verifier := &stubVerifier{
		token:     "good-token",
		principal: models.NewAuthenticated("alice"),
	}
	router := setupAuthRouter(verifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAuthenticate_BearerIsCaseInsensitive(t *testing.T) {
	verifier := &stubVerifier{
		token:     "good-token",
		principal: models.NewAnonymous("user_abc123"),
	}
	router := setupAuthRouter(verifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
