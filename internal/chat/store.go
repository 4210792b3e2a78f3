// Package chat keeps per-session conversation history and produces assistant
// replies from a language model.
package chat

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/models"
)

const (
	// ContextWindow is how many prior messages are given to the model.
	ContextWindow       = 10
	DefaultSessionLimit = 20
)

// Store persists chat messages
type Store interface {
	InsertMessage(ctx context.Context, m *models.ChatMessage) error
	// ListMessages returns messages oldest first; limit <= 0 means no limit.
	ListMessages(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error)
	// RecentMessages returns up to limit messages newest first.
	RecentMessages(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error)
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatSession, error)
}

// TxStore is a Store that can group writes in a transaction
type TxStore interface {
	Store
	InTx(ctx context.Context, fn func(s Store) error) error
}

// ConversationStore is the session-scoped view over a Store
type ConversationStore struct {
	store TxStore
	now   func() time.Time
}

func NewConversationStore(store TxStore) *ConversationStore {
	return &ConversationStore{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Append stores one message. role must be user or assistant.
func (c *ConversationStore) Append(ctx context.Context, userID uuid.UUID, sessionID, role, content string) (*models.ChatMessage, error) {
	return appendTo(ctx, c.store, userID, sessionID, role, content, c.now())
}

func appendTo(ctx context.Context, s Store, userID uuid.UUID, sessionID, role, content string, ts time.Time) (*models.ChatMessage, error) {
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, common.Validation(fmt.Sprintf("invalid chat role %q", role), nil)
	}
	m := &models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: ts,
	}
	if err := s.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// History returns the session oldest first.
func (c *ConversationStore) History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error) {
	return c.store.ListMessages(ctx, userID, sessionID, limit)
}

// RecentForContext returns the newest max messages in chronological order.
func (c *ConversationStore) RecentForContext(ctx context.Context, userID uuid.UUID, sessionID string, max int) ([]models.ChatMessage, error) {
	if max <= 0 {
		max = ContextWindow
	}
	msgs, err := c.store.RecentMessages(ctx, userID, sessionID, max)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (c *ConversationStore) Sessions(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatSession, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	return c.store.ListSessions(ctx, userID, limit)
}
