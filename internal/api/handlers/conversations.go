package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventscout/chat-service/internal/api/dto"
	"github.com/eventscout/chat-service/internal/api/middleware"
	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/services/conversation"
)

// ConversationsHandler serves conversation history reads.
type ConversationsHandler struct {
	store conversation.Store
}

// NewConversationsHandler creates a new ConversationsHandler.
func NewConversationsHandler(store conversation.Store) *ConversationsHandler {
	return &ConversationsHandler{store: store}
}

// Get handles GET /api/public/conversations/:conversationId
// @Summary Get a conversation
// @Description Returns an owned conversation's ordered turn history
// @Tags Conversations
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} dto.ConversationResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/public/conversations/{conversationId} [get]
func (h *ConversationsHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		middleware.HandleError(c, domainerrors.NewUnauthorizedError("Authorization header required"))
		return
	}

	conv, err := h.store.Get(c.Request.Context(), c.Param("conversationId"), principal)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversationResponse{
		ID:           conv.ID,
		History:      conv.History,
		CreatedAt:    conv.CreatedAt.Format(time.RFC3339),
		LastActiveAt: conv.LastActiveAt.Format(time.RFC3339),
	})
}
