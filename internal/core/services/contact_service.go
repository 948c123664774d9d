package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/google/uuid"
)

type contactService struct {
	BaseService
	contactRepo portsrepo.ContactRepositoryFacade
	userSvc     portssvc.UserSvcFacade
}

// NewContactService creates the contact service. Unknown emails are resolved through userSvc.
func NewContactService(contactRepo portsrepo.ContactRepositoryFacade, userSvc portssvc.UserSvcFacade) portssvc.ContactSvcFacade {
	return &contactService{contactRepo: contactRepo, userSvc: userSvc}
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

func (s *contactService) ListContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	contacts, err := s.contactRepo.ListContacts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list contacts", slog.String("user_id", userID))
		return nil, err
	}
	return contacts, nil
}

func (s *contactService) UpsertContact(ctx context.Context, userID string, req dto.UpsertContactRequest) (*domain.Contact, error) {
	user, err := s.userSvc.EnsureUserByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, err
	}
	if user.UserID == userID {
		return nil, fmt.Errorf("cannot save yourself as a contact: %w", apperrors.ErrValidation)
	}
	return s.upsert(ctx, userID, user, req.Nickname)
}

func (s *contactService) UpdateContactNickname(ctx context.Context, userID, contactID string, req dto.UpdateContactRequest) (*domain.Contact, error) {
	if err := s.contactRepo.UpdateContactNickname(ctx, contactID, userID, strings.TrimSpace(req.Nickname)); err != nil {
		return nil, err
	}
	return s.contactRepo.FindContactByID(ctx, contactID, userID)
}

func (s *contactService) DeleteContact(ctx context.Context, userID, contactID string) error {
	if err := s.contactRepo.DeleteContact(ctx, contactID, userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Contact deleted", slog.String("user_id", userID), slog.String("contact_id", contactID))
	return nil
}

func (s *contactService) SaveParticipants(ctx context.Context, userID string, participants []dto.ParticipantInput) ([]domain.User, error) {
	users := make([]domain.User, 0, len(participants))
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		user, err := s.userSvc.EnsureUserByEmail(ctx, p.Email, "")
		if err != nil {
			return nil, err
		}
		if user.UserID == userID {
			return nil, fmt.Errorf("the creator cannot be a participant: %w", apperrors.ErrValidation)
		}
		if seen[user.UserID] {
			return nil, fmt.Errorf("participant %s is listed twice: %w", user.Email, apperrors.ErrValidation)
		}
		seen[user.UserID] = true

		if _, err := s.upsert(ctx, userID, user, p.Nickname); err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// upsert keeps an existing nickname when nickname is empty.
func (s *contactService) upsert(ctx context.Context, userID string, user *domain.User, nickname string) (*domain.Contact, error) {
	contact, err := s.contactRepo.UpsertContact(ctx, domain.Contact{
		ContactID: uuid.NewString(),
		SavedByID: userID,
		UserID:    user.UserID,
		Nickname:  strings.TrimSpace(nickname),
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save contact", slog.String("user_id", userID), slog.String("contact_user_id", user.UserID))
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return contact, nil
}
