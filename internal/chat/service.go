package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"wanderai-backend/internal/models"
)

// Apology is returned in place of a model reply whenever the model fails.
const Apology = "I apologize, but I'm having trouble processing your request right now. Please try again."

// Replier produces the assistant's answer to message given the prior turns, oldest first.
type Replier interface {
	Reply(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// Reply is the outcome of Send. Fallback reports that Response is the apology
// and Err holds the model failure.
type Reply struct {
	Response  string
	SessionID string
	Timestamp time.Time
	Fallback  bool
	Err       error
}

type Service struct {
	conv  *ConversationStore
	model Replier
	log   *slog.Logger
}

func NewService(conv *ConversationStore, model Replier, log *slog.Logger) *Service {
	return &Service{conv: conv, model: model, log: log.With("component", "chat")}
}

// Send answers message within sessionID, starting a new session when it is empty.
// The model is called before anything is written; the user message and the
// reply are then committed together.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, sessionID, message string) (*Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	userTS := s.conv.now()

	history, err := s.conv.RecentForContext(ctx, userID, sessionID, ContextWindow)
	if err != nil {
		return nil, fmt.Errorf("load chat context: %w", err)
	}

	reply := &Reply{SessionID: sessionID}
	reply.Response, reply.Err = s.ask(ctx, history, message)
	if reply.Err != nil {
		s.log.ErrorContext(ctx, "chat model failed", "session_id", sessionID, "error", reply.Err)
		reply.Response = Apology
		reply.Fallback = true
	}

	reply.Timestamp = s.conv.now()
	if !reply.Timestamp.After(userTS) {
		reply.Timestamp = userTS.Add(time.Microsecond)
	}

	err = s.conv.store.InTx(ctx, func(tx Store) error {
		if _, err := appendTo(ctx, tx, userID, sessionID, models.RoleUser, message, userTS); err != nil {
			return err
		}
		_, err := appendTo(ctx, tx, userID, sessionID, models.RoleAssistant, reply.Response, reply.Timestamp)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store chat turn: %w", err)
	}
	return reply, nil
}

func (s *Service) ask(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	if s.model == nil {
		return "", fmt.Errorf("no chat model configured")
	}
	text, err := s.model.Reply(ctx, history, message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("chat model returned an empty reply")
	}
	return text, nil
}
