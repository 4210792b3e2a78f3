package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wanderai-backend/internal/chat"
	"wanderai-backend/internal/models"
)

const chatColumns = `id, user_id, session_id, role, content, timestamp, extra_metadata`

// ChatRepository stores chat messages
type ChatRepository struct {
	pool TxBeginner
	q    DBTX
}

func NewChatRepository(db TxBeginner) *ChatRepository {
	return &ChatRepository{pool: db, q: db}
}

// InTx runs fn with a store bound to one transaction
func (r *ChatRepository) InTx(ctx context.Context, fn func(s chat.Store) error) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&ChatRepository{pool: r.pool, q: tx})
	})
}

func (r *ChatRepository) InsertMessage(ctx context.Context, m *models.ChatMessage) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO chat_messages (`+chatColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.SessionID, m.Role, m.Content, m.Timestamp, m.Metadata,
	)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListMessages returns the session in chronological order. limit <= 0 returns everything.
func (r *ChatRepository) ListMessages(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error) {
	sql := `SELECT ` + chatColumns + ` FROM chat_messages
             WHERE user_id = $1 AND session_id = $2
             ORDER BY timestamp ASC, id`
	args := []any{userID, sessionID}
	if limit > 0 {
		sql += ` LIMIT $3`
		args = append(args, limit)
	}
	return r.queryMessages(ctx, sql, args...)
}

// RecentMessages returns up to limit messages of the session, newest first.
func (r *ChatRepository) RecentMessages(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]models.ChatMessage, error) {
	return r.queryMessages(ctx,
		`SELECT `+chatColumns+` FROM chat_messages
          WHERE user_id = $1 AND session_id = $2
          ORDER BY timestamp DESC, id DESC
          LIMIT $3`, userID, sessionID, limit)
}

func (r *ChatRepository) queryMessages(ctx context.Context, sql string, args ...any) ([]models.ChatMessage, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Role, &m.Content, &m.Timestamp, &m.Metadata); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return messages, nil
}

// ListSessions returns one row per session, most recently active first
func (r *ChatRepository) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatSession, error) {
	rows, err := r.q.Query(ctx,
		`SELECT session_id, MAX(timestamp) AS last_activity
           FROM chat_messages
          WHERE user_id = $1
          GROUP BY session_id
          ORDER BY last_activity DESC
          LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.SessionID, &s.LastActivity); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	return sessions, nil
}
