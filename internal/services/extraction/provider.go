// Package extraction turns free-text messages into structured event
// preferences via pluggable LLM providers.
package extraction

import (
	"context"
	"sort"

	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/domain/models"
)

// Provider extracts preferences from a message given the conversation
// history, replayed oldest-first.
type Provider interface {
	// Name returns the provider's registry name, e.g. "openai".
	Name() string

	// Extract returns the four preference fields, using the "none" sentinel
	// for anything it cannot resolve.
	Extract(ctx context.Context, message string, history []models.Turn) (models.Preferences, error)
}

// Registry is a capability table of named extraction providers. Unknown
// provider names fail fast instead of silently defaulting.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its name. Later registrations with the
// same name replace earlier ones.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, domainerrors.NewValidationError("Unknown llm_provider: " + name)
	}
	return p, nil
}

// Names lists the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
