// Package search provides the external event search capability client.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// Event is a raw candidate returned by the search capability. The schema is
// owned by the collaborator; the service only reads a few well-known keys.
type Event map[string]interface{}

// RelevanceScore returns the event's relevance, defaulting to 0.5 when the
// collaborator did not score it.
func (e Event) RelevanceScore() float64 {
	if score, ok := e["relevance_score"].(float64); ok {
		return score
	}
	return 0.5
}

// Title returns the event title for explanations.
func (e Event) Title() string {
	if title, ok := e["title"].(string); ok && title != "" {
		return title
	}
	return "Unknown Event"
}

// Searcher matches extracted preferences against the event inventory.
type Searcher interface {
	Search(ctx context.Context, query string, prefs models.Preferences) ([]Event, error)
}

// HTTPSearcher calls the event search service over HTTP with a bounded
// timeout. A timeout or transport failure surfaces as an error; the caller
// degrades to an empty recommendation set rather than hanging the request.
type HTTPSearcher struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the search client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPSearcher creates the HTTP search client.
func NewHTTPSearcher(cfg Config) (*HTTPSearcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("search base URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &HTTPSearcher{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type searchRequest struct {
	Query       string             `json:"query"`
	Preferences models.Preferences `json:"preferences"`
}

type searchResponse struct {
	Events []Event `json:"events"`
}

// Search posts the query and preferences to the events endpoint.
func (s *HTTPSearcher) Search(ctx context.Context, query string, prefs models.Preferences) ([]Event, error) {
	body, err := json.Marshal(searchRequest{Query: query, Preferences: prefs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search service returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return result.Events, nil
}
