// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventscout/chat-service/internal/api/dto"
	"github.com/eventscout/chat-service/internal/api/middleware"
	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/services/recommend"
)

// ChatHandler handles the public chat endpoint.
type ChatHandler struct {
	assembler *recommend.Assembler
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assembler *recommend.Assembler) *ChatHandler {
	return &ChatHandler{assembler: assembler}
}

// Chat handles POST /api/public/chat
// @Summary Conversational event recommendations
// @Description Authenticated, rate-limited chat endpoint returning ranked event recommendations
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat message"
// @Success 200 {object} dto.ChatResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/public/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		middleware.HandleError(c, domainerrors.NewUnauthorizedError("Authorization header required"))
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	conversationID := ""
	if req.ConversationID != nil {
		conversationID = *req.ConversationID
	}

	out, err := h.assembler.Chat(c.Request.Context(), recommend.Input{
		Principal:      principal,
		Message:        req.Message,
		Provider:       req.ProviderOrDefault(),
		IsInitial:      req.IsInitialResponse,
		ConversationID: conversationID,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var summary *string
	if out.ExtractionSummary != "" {
		summary = &out.ExtractionSummary
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Message:              out.Message,
		Recommendations:      out.Recommendations,
		LLMProviderUsed:      out.ProviderUsed,
		CacheUsed:            out.CacheUsed,
		CacheAgeHours:        out.CacheAgeHours,
		ExtractedPreferences: out.ExtractedPreferences,
		ExtractionSummary:    summary,
		UsageStats:           out.UsageStats,
		TrialExceeded:        out.TrialExceeded,
		ConversationID:       out.ConversationID,
	})
}
