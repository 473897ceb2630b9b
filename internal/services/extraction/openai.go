package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// ProviderOpenAI is the registry name of the OpenAI-backed provider.
const ProviderOpenAI = "openai"

const extractionSystemPrompt = `You extract event search preferences from a user message.
Respond with ONLY a JSON object with exactly these string fields:
{"location": ..., "date": ..., "time": ..., "event_type": ...}
Use lowercase values. Use "none" for any field the message and conversation do not resolve.`

// OpenAIConfig holds the OpenAI provider configuration.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIProvider extracts preferences through the OpenAI chat completion API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates the OpenAI extraction provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Name returns the registry name.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Extract replays the history and asks the model for a strict JSON object.
func (p *OpenAIProvider) Extract(ctx context.Context, message string, history []models.Turn) (models.Preferences, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Message})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Preferences{}, fmt.Errorf("empty completion response")
	}

	prefs, err := parsePreferences(resp.Choices[0].Message.Content)
	if err != nil {
		return models.Preferences{}, err
	}
	return prefs.Normalize(), nil
}

// parsePreferences tolerates models that wrap the JSON in code fences or prose.
func parsePreferences(content string) (models.Preferences, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return models.Preferences{}, fmt.Errorf("no JSON object in completion: %q", content)
	}

	var prefs models.Preferences
	if err := json.Unmarshal([]byte(content[start:end+1]), &prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return prefs, nil
}
