package dto

// ChatMessageRequest is a user turn sent to the assistant
type ChatMessageRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// ChatMessageResponse is the assistant reply
type ChatMessageResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// ChatHistoryItem is one stored turn
type ChatHistoryItem struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatSessionItem is one session in the sessions list
type ChatSessionItem struct {
	SessionID    string `json:"session_id"`
	LastActivity string `json:"last_activity"`
}
