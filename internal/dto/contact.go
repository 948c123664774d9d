package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// UpsertContactRequest saves a user as a contact, creating a placeholder user for unknown emails.
type UpsertContactRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname" binding:"max=100"`
}

// UpdateContactRequest changes the nickname of a saved contact.
type UpdateContactRequest struct {
	Nickname string `json:"nickname" binding:"max=100"`
}

type ContactResponse struct {
	ContactID string        `json:"contactID"`
	User      PartyResponse `json:"user"`
	Nickname  string        `json:"nickname,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

func ToContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ContactID: c.ContactID,
		User:      toPartyResponse(c.User),
		Nickname:  c.Nickname,
		CreatedAt: c.CreatedAt,
	}
}

func ToListContactResponse(contacts []domain.Contact) []ContactResponse {
	res := make([]ContactResponse, len(contacts))
	for i := range contacts {
		res[i] = ToContactResponse(&contacts[i])
	}
	return res
}
