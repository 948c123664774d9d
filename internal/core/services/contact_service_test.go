package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/core/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ContactRepository ---
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) ListContacts(ctx context.Context, savedByID string) ([]domain.Contact, error) {
	args := m.Called(ctx, savedByID)
	var cs []domain.Contact
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Contact)
	}
	return cs, args.Error(1)
}

func (m *MockContactRepository) FindContactByID(ctx context.Context, contactID string, savedByID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID, savedByID)
	var c *domain.Contact
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Contact)
	}
	return c, args.Error(1)
}

func (m *MockContactRepository) UpsertContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, contact)
	var c *domain.Contact
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Contact)
	}
	return c, args.Error(1)
}

func (m *MockContactRepository) UpdateContactNickname(ctx context.Context, contactID string, savedByID string, nickname string) error {
	return m.Called(ctx, contactID, savedByID, nickname).Error(0)
}

func (m *MockContactRepository) DeleteContact(ctx context.Context, contactID string, savedByID string) error {
	return m.Called(ctx, contactID, savedByID).Error(0)
}

type ContactServiceTestSuite struct {
	suite.Suite
	contactRepo *MockContactRepository
	userRepo    *MockUserRepository
	service     portssvc.ContactSvcFacade
	ctx         context.Context
}

func (suite *ContactServiceTestSuite) SetupTest() {
	suite.contactRepo = new(MockContactRepository)
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewContactService(suite.contactRepo, services.NewUserService(suite.userRepo))
	suite.ctx = context.Background()
}

func (suite *ContactServiceTestSuite) expectUser(email string, user *domain.User) {
	suite.userRepo.On("EnsureUserByEmail", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == email
	})).Return(user, nil)
}

func (suite *ContactServiceTestSuite) TestSaveParticipants_UpsertsContactsInOrder() {
	suite.expectUser("bob@example.com", &domain.User{UserID: bob.UserID, Name: bob.Name, Email: bob.Email})
	suite.expectUser("carol@example.com", &domain.User{UserID: carol.UserID, Name: carol.Name, Email: carol.Email})
	suite.contactRepo.On("UpsertContact", suite.ctx, mock.MatchedBy(func(c domain.Contact) bool {
		return c.SavedByID == alice.UserID && (c.UserID == bob.UserID || c.UserID == carol.UserID)
	})).Return(&domain.Contact{}, nil).Twice()

	users, err := suite.service.SaveParticipants(suite.ctx, alice.UserID, []dto.ParticipantInput{
		{Email: "BOB@example.com", Nickname: "Bobby"},
		{Email: "carol@example.com"},
	})

	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal(bob.UserID, users[0].UserID)
	suite.Equal(carol.UserID, users[1].UserID)
	suite.contactRepo.AssertExpectations(suite.T())
}

func (suite *ContactServiceTestSuite) TestSaveParticipants_RejectsCreatorAndDuplicates() {
	suite.expectUser("alice@example.com", &domain.User{UserID: alice.UserID, Email: alice.Email})
	_, err := suite.service.SaveParticipants(suite.ctx, alice.UserID, []dto.ParticipantInput{{Email: "alice@example.com"}})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.expectUser("bob@example.com", &domain.User{UserID: bob.UserID, Email: bob.Email})
	suite.contactRepo.On("UpsertContact", suite.ctx, mock.Anything).Return(&domain.Contact{}, nil)
	_, err = suite.service.SaveParticipants(suite.ctx, alice.UserID, []dto.ParticipantInput{{Email: "bob@example.com"}, {Email: "Bob@example.com"}})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ContactServiceTestSuite) TestUpdateContactNickname() {
	suite.contactRepo.On("UpdateContactNickname", suite.ctx, "c-1", alice.UserID, "Bobby").Return(nil).Once()
	suite.contactRepo.On("FindContactByID", suite.ctx, "c-1", alice.UserID).Return(&domain.Contact{ContactID: "c-1", Nickname: "Bobby"}, nil).Once()

	contact, err := suite.service.UpdateContactNickname(suite.ctx, alice.UserID, "c-1", dto.UpdateContactRequest{Nickname: " Bobby "})

	suite.Require().NoError(err)
	suite.Equal("Bobby", contact.Nickname)
}

func (suite *ContactServiceTestSuite) TestDeleteContact_NotFound() {
	suite.contactRepo.On("DeleteContact", suite.ctx, "c-x", alice.UserID).Return(apperrors.ErrNotFound).Once()

	suite.ErrorIs(suite.service.DeleteContact(suite.ctx, alice.UserID, "c-x"), apperrors.ErrNotFound)
}

func TestContactServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContactServiceTestSuite))
}
