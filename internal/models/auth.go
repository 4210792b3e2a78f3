package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. FirebaseUID holds the identity
// provider subject the account was created from.
type User struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	FirebaseUID string         `json:"firebase_uid" db:"firebase_uid"`
	Email       string         `json:"email" db:"email"`
	DisplayName *string        `json:"display_name" db:"display_name"`
	Preferences map[string]any `json:"preferences" db:"preferences"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Interests returns preferences["interests"] as strings. Non-string entries are skipped.
func (u *User) Interests() []string {
	if u == nil || u.Preferences == nil {
		return nil
	}
	switch v := u.Preferences["interests"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
