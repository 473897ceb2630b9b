// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/eventscout/chat-service/internal/domain/models"

// ErrorResponse is the wire-contract error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ChatResponse represents the public chat endpoint's 200 body.
type ChatResponse struct {
	Message              string                  `json:"message"`
	Recommendations      []models.Recommendation `json:"recommendations"`
	LLMProviderUsed      string                  `json:"llm_provider_used"`
	CacheUsed            bool                    `json:"cache_used"`
	CacheAgeHours        *float64                `json:"cache_age_hours"`
	ExtractedPreferences *models.Preferences     `json:"extracted_preferences"`
	ExtractionSummary    *string                 `json:"extraction_summary"`
	UsageStats           *models.UsageStats      `json:"usage_stats"`
	TrialExceeded        bool                    `json:"trial_exceeded"`
	ConversationID       string                  `json:"conversation_id"`
}

// ConversationResponse represents a conversation history payload.
type ConversationResponse struct {
	ID           string        `json:"id"`
	History      []models.Turn `json:"history"`
	CreatedAt    string        `json:"created_at"`
	LastActiveAt string        `json:"last_active_at"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}
