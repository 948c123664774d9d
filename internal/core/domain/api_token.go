package domain

import "time"

// APIToken represents a personal token for authenticating API requests without a browser session.
type APIToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	SecretHash string     `json:"-"` // bcrypt hash, never exposed
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsExpired checks if the token has expired
func (t *APIToken) IsExpired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return t.ExpiresAt.Before(now)
}
