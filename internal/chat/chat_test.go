package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/logging"
	"wanderai-backend/internal/models"
)

// memStore is an in-memory TxStore. Writes inside InTx are staged and only
// become visible when fn returns nil.
type memStore struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	commits  int
	failTx   error
}

func (m *memStore) InsertMessage(_ context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) session(userID uuid.UUID, sessionID string) []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ChatMessage
	for _, msg := range m.messages {
		if msg.UserID == userID && msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func (m *memStore) ListMessages(_ context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error) {
	out := m.session(userID, sessionID)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) RecentMessages(_ context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error) {
	asc := m.session(userID, sessionID)
	var out []models.ChatMessage
	for i := len(asc) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, asc[i])
	}
	return out, nil
}

func (m *memStore) ListSessions(_ context.Context, userID uuid.UUID, limit int) ([]models.ChatSession, error) {
	m.mu.Lock()
	last := map[string]time.Time{}
	for _, msg := range m.messages {
		if msg.UserID == userID && msg.Timestamp.After(last[msg.SessionID]) {
			last[msg.SessionID] = msg.Timestamp
		}
	}
	m.mu.Unlock()

	var out []models.ChatSession
	for id, ts := range last {
		out = append(out, models.ChatSession{SessionID: id, LastActivity: ts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivity.After(out[j].LastActivity) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) InTx(ctx context.Context, fn func(s Store) error) error {
	staged := &memStore{}
	if err := fn(staged); err != nil {
		return err
	}
	if m.failTx != nil {
		return m.failTx
	}
	m.mu.Lock()
	m.messages = append(m.messages, staged.messages...)
	m.commits++
	m.mu.Unlock()
	return nil
}

type fakeReplier struct {
	text    string
	err     error
	history []models.ChatMessage
	calls   int
}

func (f *fakeReplier) Reply(_ context.Context, history []models.ChatMessage, _ string) (string, error) {
	f.calls++
	f.history = history
	return f.text, f.err
}

func newTestStore(t *testing.T) (*memStore, *ConversationStore) {
	t.Helper()
	mem := &memStore{}
	conv := NewConversationStore(mem)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	conv.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return mem, conv
}

func TestAppend_RejectsUnknownRole(t *testing.T) {
	_, conv := newTestStore(t)

	_, err := conv.Append(context.Background(), uuid.New(), "s1", "system", "hi")

	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRecentForContext_ChronologicalOrder(t *testing.T) {
	_, conv := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 1; i <= 15; i++ {
		role := models.RoleUser
		if i%2 == 0 {
			role = models.RoleAssistant
		}
		_, err := conv.Append(ctx, userID, "s1", role, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}

	msgs, err := conv.RecentForContext(ctx, userID, "s1", 10)
	require.NoError(t, err)

	require.Len(t, msgs, 10)
	assert.Equal(t, "m6", msgs[0].Content)
	assert.Equal(t, "m15", msgs[9].Content)
	for i := 1; i < len(msgs); i++ {
		assert.True(t, msgs[i-1].Timestamp.Before(msgs[i].Timestamp))
	}
}

func TestHistory_ScopedToUserAndSession(t *testing.T) {
	_, conv := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, _ = conv.Append(ctx, alice, "s1", models.RoleUser, "alice s1")
	_, _ = conv.Append(ctx, alice, "s2", models.RoleUser, "alice s2")
	_, _ = conv.Append(ctx, bob, "s1", models.RoleUser, "bob s1")

	msgs, err := conv.History(ctx, alice, "s1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice s1", msgs[0].Content)
}

func TestSessions_MostRecentFirst(t *testing.T) {
	_, conv := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	_, _ = conv.Append(ctx, userID, "old", models.RoleUser, "a")
	_, _ = conv.Append(ctx, userID, "new", models.RoleUser, "b")
	_, _ = conv.Append(ctx, userID, "old", models.RoleAssistant, "c")
	_, _ = conv.Append(ctx, userID, "newest", models.RoleUser, "d")

	sessions, err := conv.Sessions(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{"newest", "old", "new"},
		[]string{sessions[0].SessionID, sessions[1].SessionID, sessions[2].SessionID})
}

func TestSend_NewSessionStoresBothTurns(t *testing.T) {
	mem, conv := newTestStore(t)
	model := &fakeReplier{text: "Visit Kyoto in spring."}
	svc := NewService(conv, model, logging.Discard())
	userID := uuid.New()

	reply, err := svc.Send(context.Background(), userID, "", "Where should I go?")
	require.NoError(t, err)

	assert.False(t, reply.Fallback)
	assert.Equal(t, "Visit Kyoto in spring.", reply.Response)
	_, parseErr := uuid.Parse(reply.SessionID)
	assert.NoError(t, parseErr)

	assert.Equal(t, 1, mem.commits)
	msgs := mem.session(userID, reply.SessionID)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "Where should I go?", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.True(t, msgs[0].Timestamp.Before(msgs[1].Timestamp))
	assert.Equal(t, msgs[1].Timestamp, reply.Timestamp)
}

func TestSend_ContextExcludesCurrentMessage(t *testing.T) {
	_, conv := newTestStore(t)
	model := &fakeReplier{text: "ok"}
	svc := NewService(conv, model, logging.Discard())
	userID := uuid.New()

	_, err := svc.Send(context.Background(), userID, "s1", "first")
	require.NoError(t, err)
	assert.Empty(t, model.history)

	_, err = svc.Send(context.Background(), userID, "s1", "second")
	require.NoError(t, err)
	require.Len(t, model.history, 2)
	assert.Equal(t, "first", model.history[0].Content)
	assert.Equal(t, "ok", model.history[1].Content)
}

func TestSend_ModelFailureReturnsApology(t *testing.T) {
	for name, model := range map[string]*fakeReplier{
		"error": {err: errors.New("quota exceeded")},
		"empty": {text: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			mem, conv := newTestStore(t)
			svc := NewService(conv, model, logging.Discard())
			userID := uuid.New()

			reply, err := svc.Send(context.Background(), userID, "s1", "hello")
			require.NoError(t, err)

			assert.True(t, reply.Fallback)
			assert.Error(t, reply.Err)
			assert.Equal(t, Apology, reply.Response)
			msgs := mem.session(userID, "s1")
			require.Len(t, msgs, 2)
			assert.Equal(t, Apology, msgs[1].Content)
		})
	}
}

func TestSend_CommitFailureWritesNothing(t *testing.T) {
	mem, conv := newTestStore(t)
	mem.failTx = errors.New("connection reset")
	svc := NewService(conv, &fakeReplier{text: "hi"}, logging.Discard())
	userID := uuid.New()

	_, err := svc.Send(context.Background(), userID, "s1", "hello")

	require.Error(t, err)
	assert.Empty(t, mem.session(userID, "s1"))
}
