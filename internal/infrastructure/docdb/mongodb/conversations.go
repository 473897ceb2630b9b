package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// ConversationsCollectionName is the name of the conversations collection.
const ConversationsCollectionName = "conversations"

// ConversationsCollection implements docdb.ConversationsCollection on MongoDB.
// One document per conversation; turns live in an embedded array and are
// appended with $push, which preserves insertion order.
type ConversationsCollection struct {
	coll *mongo.Collection
}

// NewConversationsCollection creates the typed conversations collection.
func NewConversationsCollection(db *mongo.Database) *ConversationsCollection {
	return &ConversationsCollection{
		coll: db.Collection(ConversationsCollectionName),
	}
}

// Insert stores a new conversation document.
func (c *ConversationsCollection) Insert(ctx context.Context, conversation *models.Conversation) error {
	if _, err := c.coll.InsertOne(ctx, conversation); err != nil {
		return fmt.Errorf("failed to insert conversation %s: %w", conversation.ID, err)
	}
	return nil
}

// FindByID returns the conversation with the given id, or nil if absent.
func (c *ConversationsCollection) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation %s: %w", id, err)
	}
	return &conversation, nil
}

// AppendTurn appends a turn to the conversation's history.
func (c *ConversationsCollection) AppendTurn(ctx context.Context, id string, turn models.Turn) error {
	update := bson.M{
		"$push": bson.M{"history": turn},
		"$set":  bson.M{"lastActiveAt": time.Now().UTC()},
	}

	result, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append turn to conversation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("conversation %s not found", id)
	}
	return nil
}
