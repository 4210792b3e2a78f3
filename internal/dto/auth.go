package dto

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string         `json:"id"`
	FirebaseUID string         `json:"firebase_uid"`
	Email       string         `json:"email"`
	DisplayName *string        `json:"display_name"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// UpdateUserRequest represents the profile fields a user may change
type UpdateUserRequest struct {
	DisplayName *string        `json:"display_name"`
	Preferences map[string]any `json:"preferences"`
}

// ErrorBody is the body of every error response
type ErrorBody struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Timestamp  string         `json:"timestamp,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	RetryAfter int            `json:"retry_after,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
