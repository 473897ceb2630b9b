// Package conversation_test provides unit tests for the conversation store.
package conversation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscout/chat-service/internal/core/docdb"
	domainerrors "github.com/eventscout/chat-service/internal/domain/errors"
	"github.com/eventscout/chat-service/internal/domain/models"
	"github.com/eventscout/chat-service/internal/services/conversation"
)

// memCollection is an in-memory stand-in for the conversations collection.
type memCollection struct {
	mu   sync.Mutex
	docs map[string]*models.Conversation
}

func newMemCollection() *memCollection {
	return &memCollection{docs: make(map[string]*models.Conversation)}
}

func (c *memCollection) Insert(ctx context.Context, conv *models.Conversation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *conv
	c.docs[conv.ID] = &copied
	return nil
}

func (c *memCollection) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	copied := *conv
	copied.History = append([]models.Turn(nil), conv.History...)
	return &copied, nil
}

func (c *memCollection) AppendTurn(ctx context.Context, id string, turn models.Turn) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.docs[id]
	if !ok {
		return domainerrors.NewNotFoundError("conversation not found")
	}
	conv.History = append(conv.History, turn)
	conv.LastActiveAt = turn.Timestamp
	return nil
}

// memClient satisfies docdb.Client over the in-memory collection.
type memClient struct {
	collection *memCollection
}

func (c *memClient) Conversations() docdb.ConversationsCollection { return c.collection }
func (c *memClient) EnsureIndexes(ctx context.Context) error      { return nil }
func (c *memClient) Ping(ctx context.Context) error               { return nil }
func (c *memClient) Close(ctx context.Context) error              { return nil }

func setupStore(t *testing.T) (conversation.Store, *memCollection) {
	t.Helper()

	collection := newMemCollection()
	store, err := conversation.NewStore(&conversation.Config{
		DocDBClient: &memClient{collection: collection},
	})
	require.NoError(t, err)
	return store, collection
}

func TestResolve_InitialCreatesConversation(t *testing.T) {
	store, _ := setupStore(t)
	principal := models.NewAuthenticated("alice")

	conv, err := store.Resolve(context.Background(), "", principal, true)

	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, "alice", conv.OwnerID)
	assert.Empty(t, conv.History)
}

func TestResolve_MissingIDCreatesConversation(t *testing.T) {
	store, _ := setupStore(t)
	principal := models.NewAnonymous("user_abc123")

	conv, err := store.Resolve(context.Background(), "", principal, false)

	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, string(models.KindAnonymous), conv.OwnerKind)
}

func TestResolve_ExistingIDLoadsConversation(t *testing.T) {
	store, _ := setupStore(t)
	principal := models.NewAuthenticated("alice")
	ctx := context.Background()

	created, err := store.Resolve(ctx, "", principal, true)
	require.NoError(t, err)

	loaded, err := store.Resolve(ctx, created.ID, principal, false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
}

func TestGet_UnknownIDReturnsNotFound(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Get(context.Background(), "no-such-id", models.NewAuthenticated("alice"))

	require.Error(t, err)
	assert.True(t, domainerrors.IsNotFound(err))
	domainErr, _ := domainerrors.GetDomainError(err)
	assert.Equal(t, "Conversation not found", domainErr.Detail)
}

func TestGet_ForeignPrincipalForbidden(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	created, err := store.Resolve(ctx, "", models.NewAuthenticated("alice"), true)
	require.NoError(t, err)

	_, err = store.Get(ctx, created.ID, models.NewAuthenticated("mallory"))

	require.Error(t, err)
	assert.True(t, domainerrors.IsForbidden(err))
	domainErr, _ := domainerrors.GetDomainError(err)
	assert.Equal(t, "You do not have permission to access this conversation", domainErr.Detail)
}

func TestAppendTurn_PreservesInsertionOrder(t *testing.T) {
	store, _ := setupStore(t)
	principal := models.NewAuthenticated("alice")
	ctx := context.Background()

	conv, err := store.Resolve(ctx, "", principal, true)
	require.NoError(t, err)

	require.NoError(t, store.AppendTurn(ctx, conv.ID, models.NewTurn(models.RoleUser, "first", nil)))
	require.NoError(t, store.AppendTurn(ctx, conv.ID, models.NewTurn(models.RoleAssistant, "second", nil)))
	require.NoError(t, store.AppendTurn(ctx, conv.ID, models.NewTurn(models.RoleUser, "third", nil)))

	loaded, err := store.Get(ctx, conv.ID, principal)
	require.NoError(t, err)
	require.Len(t, loaded.History, 3)
	assert.Equal(t, "first", loaded.History[0].Message)
	assert.Equal(t, "second", loaded.History[1].Message)
	assert.Equal(t, "third", loaded.History[2].Message)
}

func TestAppendTurn_ConcurrentAppendsAllLand(t *testing.T) {
	store, _ := setupStore(t)
	principal := models.NewAuthenticated("alice")
	ctx := context.Background()

	conv, err := store.Resolve(ctx, "", principal, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendTurn(ctx, conv.ID, models.NewTurn(models.RoleUser, "msg", nil))
		}()
	}
	wg.Wait()

	loaded, err := store.Get(ctx, conv.ID, principal)
	require.NoError(t, err)
	assert.Len(t, loaded.History, 50)
}
