// Package conversation provides the conversation store service.
package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/eventscout/chat-service/internal/core/docdb"
	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/domain/models"
)

// Store tracks conversation identity, ownership, and history.
type Store interface {
	// Resolve returns the conversation a request acts on. When isInitial is
	// set or no id is supplied a fresh conversation owned by the principal
	// is created; otherwise the id is looked up and ownership enforced.
	Resolve(ctx context.Context, conversationID string, principal models.Principal, isInitial bool) (*models.Conversation, error)

	// Get returns an existing conversation after enforcing ownership.
	Get(ctx context.Context, conversationID string, principal models.Principal) (*models.Conversation, error)

	// AppendTurn appends a turn to the conversation. Appends to the same
	// conversation are serialized; different conversations never contend.
	AppendTurn(ctx context.Context, conversationID string, turn models.Turn) error
}

// Config holds the dependencies for the conversation store.
type Config struct {
	DocDBClient docdb.Client
}

// service implements the Store interface over the document store.
type service struct {
	docDBClient docdb.Client

	// locks serializes turn appends per conversation id.
	locks sync.Map // map[string]*sync.Mutex
}

// NewStore creates a new conversation store service.
func NewStore(cfg *Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.DocDBClient == nil {
		return nil, fmt.Errorf("docdb client is required")
	}
	return &service{docDBClient: cfg.DocDBClient}, nil
}

// Resolve creates or looks up the conversation for a request.
func (s *service) Resolve(ctx context.Context, conversationID string, principal models.Principal, isInitial bool) (*models.Conversation, error) {
	if isInitial || conversationID == "" {
		conversation := models.NewConversation(principal)
		if err := s.docDBClient.Conversations().Insert(ctx, conversation); err != nil {
			return nil, domainerrors.NewInternalError("failed to create conversation", err)
		}
		log.Debug().
			Str("conversation_id", conversation.ID).
			Str("owner", principal.ID).
			Msg("conversation created")
		return conversation, nil
	}

	return s.Get(ctx, conversationID, principal)
}

// Get looks up a conversation and enforces ownership. A foreign principal is
// rejected with a permission error, never silently redirected.
func (s *service) Get(ctx context.Context, conversationID string, principal models.Principal) (*models.Conversation, error) {
	conversation, err := s.docDBClient.Conversations().FindByID(ctx, conversationID)
	if err != nil {
		return nil, domainerrors.NewInternalError("failed to load conversation", err)
	}
	if conversation == nil {
		return nil, domainerrors.NewNotFoundError("Conversation not found")
	}
	if !conversation.OwnedBy(principal) {
		log.Warn().
			Str("principal", principal.ID).
			Str("conversation_id", conversationID).
			Str("owner", conversation.OwnerID).
			Msg("conversation access denied")
		return nil, domainerrors.NewForbiddenError("You do not have permission to access this conversation")
	}
	return conversation, nil
}

// AppendTurn appends a turn under the conversation's lock.
func (s *service) AppendTurn(ctx context.Context, conversationID string, turn models.Turn) error {
	mu := s.lockFor(conversationID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.docDBClient.Conversations().AppendTurn(ctx, conversationID, turn); err != nil {
		return domainerrors.NewInternalError("failed to append turn", err)
	}
	return nil
}

func (s *service) lockFor(conversationID string) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(conversationID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
