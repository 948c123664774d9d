package domain

import "time"

// Contact is a directed "saved by" relation between two users.
type Contact struct {
	ContactID string    `json:"contactID"`
	SavedByID string    `json:"savedByID"`
	UserID    string    `json:"userID"`
	Nickname  string    `json:"nickname,omitempty"`
	User      Party     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
