package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/eventscout/chat-service/internal/api/middleware"
	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
)

func serveWithError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		middleware.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	return w
}

func TestHandleError_DomainErrorMapsToStatusAndDetail(t *testing.T) {
	w := serveWithError(domainerrors.NewNotFoundError("Conversation not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail": "Conversation not found"}`, w.Body.String())
}

func TestHandleError_ForbiddenError(t *testing.T) {
	w := serveWithError(domainerrors.NewForbiddenError("You do not have permission to access this conversation"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail": "You do not have permission to access this conversation"}`, w.Body.String())
}

func TestHandleError_UnknownErrorBecomes500(t *testing.T) {
	w := serveWithError(errors.New("database exploded"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error processing chat request: database exploded")
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	errorMw := middleware.NewErrorMiddleware()
	router.Use(errorMw.Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail": "Internal server error"}`, w.Body.String())
}
