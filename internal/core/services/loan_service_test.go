package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/core/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LoanServiceTestSuite struct {
	suite.Suite
	loanRepo   *MockLoanRepository
	contacts   *MockContactSvc
	settlement *MockSettlementSvc
	publisher  *MockPublisher
	service    portssvc.LoanSvcFacade
	ctx        context.Context
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.loanRepo = new(MockLoanRepository)
	suite.contacts = new(MockContactSvc)
	suite.settlement = new(MockSettlementSvc)
	suite.publisher = new(MockPublisher)
	suite.service = services.NewLoanService(suite.loanRepo, suite.contacts, suite.settlement,
		services.WithLoanEventPublisher(suite.publisher))
	suite.ctx = context.Background()
}

func (suite *LoanServiceTestSuite) TestCreateLoan_EveryCounterpartyGetsFullAmount() {
	participants := []dto.ParticipantInput{{Email: "bob@example.com"}, {Email: "carol@example.com"}}
	suite.contacts.On("SaveParticipants", mock.Anything, alice.UserID, participants).Return([]domain.User{
		{UserID: bob.UserID, Name: bob.Name, Email: bob.Email},
		{UserID: carol.UserID, Name: carol.Name, Email: carol.Email},
	}, nil).Once()
	suite.loanRepo.On("SaveLoan", mock.Anything, mock.AnythingOfType("domain.Loan")).Return(nil).Once()
	suite.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(evt events.Event) bool {
		return evt.Type == events.TypeRecordChanged && len(evt.AffectedUsers) == 3
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(suite.ctx, alice.UserID, dto.CreateLoanRequest{
		Title:        "Concert tickets",
		Amount:       decimal.RequireFromString("45.50"),
		CategoryID:   "cat-entertainment",
		Direction:    domain.Lend,
		Participants: participants,
	})

	suite.Require().NoError(err)
	suite.Require().Len(loan.Shares, 2)
	for _, sh := range loan.Shares {
		suite.True(decimal.RequireFromString("45.50").Equal(sh.Amount))
	}
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_Validation() {
	_, err := suite.service.CreateLoan(suite.ctx, alice.UserID, dto.CreateLoanRequest{
		Title: "x", Amount: decimal.NewFromInt(1), CategoryID: "c", Direction: "GIFT",
		Participants: []dto.ParticipantInput{{Email: "bob@example.com"}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateLoan(suite.ctx, alice.UserID, dto.CreateLoanRequest{
		Title: "x", Amount: decimal.NewFromInt(1), CategoryID: "c", Direction: domain.Borrow,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_SettledShareLocksDirection() {
	suite.loanRepo.On("FindLoanByID", mock.Anything, "loan-1").Return(&domain.Loan{
		LoanID:    "loan-1",
		Amount:    decimal.NewFromInt(20),
		Direction: domain.Borrow,
		Shares: []domain.LoanShare{
			{ShareID: "ls-1", CounterpartyID: bob.UserID, Amount: decimal.NewFromInt(20), IsSettled: true},
		},
		AuditFields: domain.AuditFields{CreatedBy: alice.UserID},
	}, nil).Once()

	lend := domain.Lend
	_, err := suite.service.UpdateLoan(suite.ctx, alice.UserID, "loan-1", dto.UpdateLoanRequest{Direction: &lend})

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_ShareSettledConcurrently() {
	suite.loanRepo.On("FindLoanByID", mock.Anything, "loan-3").Return(&domain.Loan{
		LoanID:    "loan-3",
		Amount:    decimal.NewFromInt(20),
		Direction: domain.Borrow,
		Shares: []domain.LoanShare{
			{ShareID: "ls-3", CounterpartyID: bob.UserID, Amount: decimal.NewFromInt(20)},
		},
		AuditFields: domain.AuditFields{CreatedBy: alice.UserID},
	}, nil).Once()
	suite.loanRepo.On("UpdateLoan", mock.Anything, mock.Anything).
		Return(fmt.Errorf("loan loan-3 has settled shares, amount is locked: %w", apperrors.ErrConflict)).Once()

	lend := domain.Lend
	_, err := suite.service.UpdateLoan(suite.ctx, alice.UserID, "loan-3", dto.UpdateLoanRequest{Direction: &lend})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_AmountFollowsShares() {
	suite.loanRepo.On("FindLoanByID", mock.Anything, "loan-2").Return(&domain.Loan{
		LoanID:    "loan-2",
		Amount:    decimal.NewFromInt(20),
		Direction: domain.Borrow,
		Shares: []domain.LoanShare{
			{ShareID: "ls-2", CounterpartyID: bob.UserID, Amount: decimal.NewFromInt(20)},
		},
		AuditFields: domain.AuditFields{CreatedBy: alice.UserID},
	}, nil).Once()
	suite.loanRepo.On("UpdateLoan", mock.Anything, mock.MatchedBy(func(l domain.Loan) bool {
		return l.Amount.Equal(decimal.NewFromInt(25)) && l.Shares[0].Amount.Equal(decimal.NewFromInt(25))
	})).Return(nil).Once()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	amount := decimal.NewFromInt(25)
	_, err := suite.service.UpdateLoan(suite.ctx, alice.UserID, "loan-2", dto.UpdateLoanRequest{Amount: &amount})

	suite.Require().NoError(err)
	suite.loanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestSettleShare_AlreadySettledIsNotAnError() {
	suite.settlement.On("SettleShares", mock.Anything, bob.UserID, []domain.ShareRef{{Kind: domain.SourceLoan, ShareID: "ls-1"}}).
		Return(&domain.BulkResult{Items: []domain.BulkItemResult{{Kind: domain.SourceLoan, ID: "ls-1", Outcome: domain.OutcomeAlreadyDone}}}, nil).Once()

	item, err := suite.service.SettleShare(suite.ctx, bob.UserID, "ls-1")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyDone, item.Outcome)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
