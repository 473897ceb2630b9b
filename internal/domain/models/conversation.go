package models

import (
	"time"

	"github.com/google/uuid"
)

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	// RoleUser is a turn authored by the end user.
	RoleUser TurnRole = "user"
	// RoleAssistant is a turn authored by the service.
	RoleAssistant TurnRole = "assistant"
)

// Turn is a single message in a conversation. Turns are append-only and
// insertion order is significant: history is replayed oldest-first to the
// extraction provider.
type Turn struct {
	Role                 TurnRole     `json:"role" bson:"role"`
	Message              string       `json:"message" bson:"message"`
	ExtractedPreferences *Preferences `json:"extracted_preferences,omitempty" bson:"extractedPreferences,omitempty"`
	Timestamp            time.Time    `json:"timestamp" bson:"timestamp"`
}

// Conversation is an ordered exchange of turns owned by exactly one principal.
type Conversation struct {
	ID           string    `json:"id" bson:"_id"`
	OwnerID      string    `json:"owner_id" bson:"ownerId"`
	OwnerKind    string    `json:"owner_kind" bson:"ownerKind"`
	History      []Turn    `json:"history" bson:"history"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	LastActiveAt time.Time `json:"last_active_at" bson:"lastActiveAt"`
}

// NewConversation creates an empty conversation owned by the given principal.
func NewConversation(owner Principal) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:           uuid.NewString(),
		OwnerID:      owner.ID,
		OwnerKind:    string(owner.Kind),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// OwnedBy reports whether the conversation belongs to the given principal.
func (c *Conversation) OwnedBy(p Principal) bool {
	return c.OwnerID == p.ID
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role TurnRole, message string, prefs *Preferences) Turn {
	return Turn{
		Role:                 role,
		Message:              message,
		ExtractedPreferences: prefs,
		Timestamp:            time.Now().UTC(),
	}
}
