package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat session
type ChatMessage struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"user_id" db:"user_id"`
	SessionID string         `json:"session_id" db:"session_id"`
	Role      string         `json:"role" db:"role"`
	Content   string         `json:"content" db:"content"`
	Timestamp time.Time      `json:"timestamp" db:"timestamp"`
	Metadata  map[string]any `json:"extra_metadata,omitempty" db:"extra_metadata"`
}

// ChatSession summarises a session by its latest message time
type ChatSession struct {
	SessionID    string    `json:"session_id"`
	LastActivity time.Time `json:"last_activity"`
}
