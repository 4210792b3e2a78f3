package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"wanderai-backend/internal/chat"
	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

// ChatSender answers a user message within a session
type ChatSender interface {
	Send(ctx context.Context, userID uuid.UUID, sessionID, message string) (*chat.Reply, error)
}

// ChatReader lists stored conversations
type ChatReader interface {
	ChatHistory
	Sessions(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatSession, error)
}

// ChatHandler serves the travel assistant chat
type ChatHandler struct {
	sender ChatSender
	reader ChatReader
	log    *slog.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(sender ChatSender, reader ChatReader, log *slog.Logger) *ChatHandler {
	return &ChatHandler{sender: sender, reader: reader, log: log.With("component", "chat")}
}

// SendMessage handles POST /v1/chat
// @Summary Send a message to the travel assistant
// @Description A missing session_id starts a new session. Model failures are answered with an apology, never an error.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ChatMessageRequest true "Message"
// @Success 200 {object} dto.ChatMessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/chat [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.ChatMessageRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		utils.WriteError(w, r, nil, common.Validation("message is required", map[string]any{"field": "message"}))
		return
	}
	sessionID := ""
	if req.SessionID != nil {
		sessionID = strings.TrimSpace(*req.SessionID)
	}

	reply, err := h.sender.Send(r.Context(), user.ID, sessionID, req.Message)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.ChatMessageResponse{
		Response:  reply.Response,
		SessionID: reply.SessionID,
		Timestamp: reply.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

// History handles GET /v1/chat/history/{session_id}
// @Summary Get the messages of a chat session
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {array} dto.ChatHistoryItem
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/chat/history/{session_id} [get]
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	messages, err := h.reader.History(r.Context(), user.ID, r.PathValue("session_id"), 0)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	items := make([]dto.ChatHistoryItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, dto.ChatHistoryItem{
			ID:        m.ID.String(),
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: utils.FormatTimestamp(m.Timestamp),
		})
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// Sessions handles GET /v1/chat/sessions
// @Summary List recent chat sessions
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ChatSessionItem
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/chat/sessions [get]
func (h *ChatHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.reader.Sessions(r.Context(), user.ID, chat.DefaultSessionLimit)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	items := make([]dto.ChatSessionItem, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, dto.ChatSessionItem{
			SessionID:    s.SessionID,
			LastActivity: utils.FormatTimestamp(s.LastActivity),
		})
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}
