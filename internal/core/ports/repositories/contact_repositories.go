package repositories

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// ContactReader defines read operations for a user's saved contacts
type ContactReader interface {
	// ListContacts returns the contacts saved by savedByID, newest first.
	ListContacts(ctx context.Context, savedByID string) ([]domain.Contact, error)
	FindContactByID(ctx context.Context, contactID string, savedByID string) (*domain.Contact, error)
}

// ContactWriter defines write operations for contacts
type ContactWriter interface {
	// UpsertContact creates the (savedBy, user) contact or updates its nickname.
	UpsertContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error)
	UpdateContactNickname(ctx context.Context, contactID string, savedByID string, nickname string) error
	DeleteContact(ctx context.Context, contactID string, savedByID string) error
}

// ContactRepositoryFacade combines all contact repository interfaces
type ContactRepositoryFacade interface {
	ContactReader
	ContactWriter
}
