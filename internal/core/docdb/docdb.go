// Package docdb defines the document database interface for conversation
// persistence.
package docdb

import (
	"context"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// Type represents the type of document database.
type Type string

const (
	// TypeMongoDB represents a MongoDB database.
	TypeMongoDB Type = "mongodb"
	// TypeCosmosDB represents an Azure Cosmos DB database. It speaks the
	// MongoDB protocol so the same driver serves both.
	TypeCosmosDB Type = "cosmosdb"
)

// ConversationsCollection defines the typed operations on the conversations
// collection.
type ConversationsCollection interface {
	// Insert stores a new conversation document.
	Insert(ctx context.Context, conversation *models.Conversation) error

	// FindByID returns the conversation with the given id, or nil if absent.
	FindByID(ctx context.Context, id string) (*models.Conversation, error)

	// AppendTurn appends a turn to the conversation's history and advances
	// lastActiveAt. The append preserves insertion order.
	AppendTurn(ctx context.Context, id string, turn models.Turn) error
}

// Client defines the interface for a document database client.
type Client interface {
	// Conversations returns the typed conversations collection.
	Conversations() ConversationsCollection

	// EnsureIndexes creates the indexes the service relies on.
	EnsureIndexes(ctx context.Context) error

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error
}
