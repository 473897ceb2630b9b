// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// HistoryEntry is a prior exchange supplied by the client. It is accepted
// for wire compatibility; the server-side conversation record is
// authoritative once a conversation_id exists.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request body for the public chat endpoint.
type ChatRequest struct {
	Message             string         `json:"message" binding:"required,min=1,max=4000"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	LLMProvider         string         `json:"llm_provider"`
	IsInitialResponse   bool           `json:"is_initial_response"`
	ConversationID      *string        `json:"conversation_id"`
}

// ProviderOrDefault returns the requested provider, defaulting to openai.
func (r *ChatRequest) ProviderOrDefault() string {
	if r.LLMProvider == "" {
		return "openai"
	}
	return r.LLMProvider
}
