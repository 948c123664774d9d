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

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TestEnsureUserByEmail_NormalizesAndNamesPlaceholder() {
	suite.mockUserRepo.On("EnsureUserByEmail", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "dave@example.com" && u.Name == "dave" && u.AuthProvider == domain.ProviderNone
	})).Return(&domain.User{UserID: "u-dave", Name: "dave", Email: "dave@example.com"}, nil).Once()

	user, err := suite.service.EnsureUserByEmail(suite.ctx, "  Dave@Example.COM ", "")

	suite.Require().NoError(err)
	suite.Equal("dave@example.com", user.Email)
	suite.False(user.HasSignedIn())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureUserByEmail_RequiresEmail() {
	_, err := suite.service.EnsureUserByEmail(suite.ctx, "   ", "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestClaimOrCreateGoogleUser_CreatesNewUser() {
	info := domain.GoogleUserInfo{ID: "google-sub-1", Email: "Erin@Example.com", VerifiedEmail: true, Name: "Erin", Picture: "https://img/erin.png"}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "erin@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "erin@example.com" && u.AuthProvider == domain.ProviderGoogle && u.ProviderUserID == "google-sub-1" && u.EmailVerified != nil
	})).Return(nil).Once()

	user, err := suite.service.ClaimOrCreateGoogleUser(suite.ctx, info)

	suite.Require().NoError(err)
	suite.Equal("Erin", user.Name)
	suite.True(user.HasSignedIn())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestClaimOrCreateGoogleUser_ClaimsPlaceholder() {
	placeholder := &domain.User{UserID: "u-frank", Name: "frank", Email: "frank@example.com"}
	info := domain.GoogleUserInfo{ID: "google-sub-2", Email: "frank@example.com", VerifiedEmail: true, Name: "Frank Castle"}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "frank@example.com").Return(placeholder, nil).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == "u-frank" && u.Name == "Frank Castle" && u.AuthProvider == domain.ProviderGoogle
	})).Return(nil).Once()

	user, err := suite.service.ClaimOrCreateGoogleUser(suite.ctx, info)

	suite.Require().NoError(err)
	// existing id is kept so debts recorded against the placeholder follow the user
	suite.Equal("u-frank", user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestClaimOrCreateGoogleUser_Rejections() {
	_, err := suite.service.ClaimOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{ID: "s", Email: "x@example.com"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	linked := &domain.User{UserID: "u-gina", Email: "gina@example.com", AuthProvider: domain.ProviderGoogle, ProviderUserID: "google-old"}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "gina@example.com").Return(linked, nil).Once()
	_, err = suite.service.ClaimOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{ID: "google-new", Email: "gina@example.com", VerifiedEmail: true})
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser() {
	existing := &domain.User{UserID: "u-hank", Name: "Hank", Email: "hank@example.com"}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "u-hank").Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Nickname == "H" && u.LastUpdatedBy == "u-hank"
	})).Return(nil).Once()

	nickname := "H"
	user, err := suite.service.UpdateUser(suite.ctx, "u-hank", dto.UpdateUserRequest{Nickname: &nickname})

	suite.Require().NoError(err)
	suite.Equal("H", user.Nickname)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetUserByID(suite.ctx, "nope")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
