package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscout/chat-service/internal/api/handlers"
	"github.com/eventscout/chat-service/internal/api/middleware"
	"github.com/eventscout/chat-service/internal/domain/models"
)

func setupConversationsRouter(store *memStore, principal models.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := handlers.NewConversationsHandler(store)
	router.GET("/api/public/conversations/:conversationId", func(c *gin.Context) {
		middleware.SetPrincipal(c, principal)
	}, handler.Get)
	return router
}

func TestGetConversation_ReturnsHistory(t *testing.T) {
	store := newMemStore()
	principal := models.NewAuthenticated("alice")

	conv, err := store.Resolve(context.Background(), "", principal, true)
	require.NoError(t, err)
	require.NoError(t, store.AppendTurn(context.Background(), conv.ID, models.NewTurn(models.RoleUser, "music in miami", nil)))
	require.NoError(t, store.AppendTurn(context.Background(), conv.ID, models.NewTurn(models.RoleAssistant, "Found 2 events!", nil)))

	router := setupConversationsRouter(store, principal)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/conversations/"+conv.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, conv.ID, resp["id"])
	history, ok := resp["history"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 2)

	first, ok := history[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "music in miami", first["message"])
}

func TestGetConversation_NotFound(t *testing.T) {
	router := setupConversationsRouter(newMemStore(), models.NewAuthenticated("alice"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/conversations/no-such-id", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail": "Conversation not found"}`, w.Body.String())
}

func TestGetConversation_ForeignPrincipalForbidden(t *testing.T) {
	store := newMemStore()
	owner := models.NewAuthenticated("alice")

	conv, err := store.Resolve(context.Background(), "", owner, true)
	require.NoError(t, err)

	router := setupConversationsRouter(store, models.NewAuthenticated("mallory"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/conversations/"+conv.ID, nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail": "You do not have permission to access this conversation"}`, w.Body.String())
}
