package services

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/dto"
)

// ContactSvcFacade manages the contacts saved by one user.
type ContactSvcFacade interface {
	ListContacts(ctx context.Context, userID string) ([]domain.Contact, error)
	UpsertContact(ctx context.Context, userID string, req dto.UpsertContactRequest) (*domain.Contact, error)
	UpdateContactNickname(ctx context.Context, userID, contactID string, req dto.UpdateContactRequest) (*domain.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID string) error

	// SaveParticipants resolves participant emails to users, creating placeholders as needed,
	// and saves each of them as a contact of userID. The returned users keep input order.
	SaveParticipants(ctx context.Context, userID string, participants []dto.ParticipantInput) ([]domain.User, error)
}
