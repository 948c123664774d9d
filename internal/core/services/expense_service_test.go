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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	expenseRepo  *MockExpenseRepository
	categoryRepo *MockCategoryRepository
	contacts     *MockContactSvc
	settlement   *MockSettlementSvc
	balances     *MockBalanceSvc
	service      portssvc.ExpenseSvcFacade
	ctx          context.Context
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.expenseRepo = new(MockExpenseRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.contacts = new(MockContactSvc)
	suite.settlement = new(MockSettlementSvc)
	suite.balances = new(MockBalanceSvc)
	suite.service = services.NewExpenseService(suite.expenseRepo, suite.contacts, suite.settlement,
		services.WithExpenseCategoryReader(suite.categoryRepo),
		services.WithExpenseBalanceService(suite.balances))
	suite.ctx = context.Background()

	suite.categoryRepo.On("FindCategoryByID", mock.Anything, "cat-food-dining").
		Return(&domain.Category{CategoryID: "cat-food-dining", Name: "Food & Dining"}, nil).Maybe()
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, "cat-missing").Return(nil, apperrors.ErrNotFound).Maybe()
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_SplitsEquallyCreatorTakesLeftoverCent() {
	participants := []dto.ParticipantInput{{Email: "Bob@Example.com"}, {Email: "carol@example.com", Nickname: "C"}}
	suite.contacts.On("SaveParticipants", mock.Anything, alice.UserID, participants).Return([]domain.User{
		{UserID: bob.UserID, Name: bob.Name, Email: bob.Email},
		{UserID: carol.UserID, Name: carol.Name, Email: carol.Email},
	}, nil).Once()
	suite.expenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return len(e.Shares) == 2 && e.CreatedBy == alice.UserID && e.IsSplit
	})).Return(nil).Once()
	suite.balances.On("InvalidateBalances", []string{alice.UserID, bob.UserID, carol.UserID}).Once()

	expense, err := suite.service.CreateExpense(suite.ctx, alice.UserID, dto.CreateExpenseRequest{
		Title:        " Dinner ",
		Amount:       decimal.RequireFromString("100"),
		CategoryID:   "cat-food-dining",
		IsSplit:      true,
		Participants: participants,
	})

	suite.Require().NoError(err)
	suite.Equal("Dinner", expense.Title)
	suite.Require().Len(expense.Shares, 2)
	for _, sh := range expense.Shares {
		suite.True(decimal.RequireFromString("33.33").Equal(sh.ShareAmount), sh.ShareAmount.String())
		suite.NotEmpty(sh.ShareID)
		suite.Equal(expense.ExpenseID, sh.ExpenseID)
	}
	suite.True(decimal.RequireFromString("33.34").Equal(expense.CreatorShare()))
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.balances.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Validation() {
	cases := []struct {
		name string
		req  dto.CreateExpenseRequest
	}{
		{"split without participants", dto.CreateExpenseRequest{Title: "t", Amount: decimal.NewFromInt(5), CategoryID: "cat-food-dining", IsSplit: true}},
		{"participants without split", dto.CreateExpenseRequest{Title: "t", Amount: decimal.NewFromInt(5), CategoryID: "cat-food-dining", Participants: []dto.ParticipantInput{{Email: "b@example.com"}}}},
		{"zero amount", dto.CreateExpenseRequest{Title: "t", Amount: decimal.Zero, CategoryID: "cat-food-dining"}},
		{"blank title", dto.CreateExpenseRequest{Title: "  ", Amount: decimal.NewFromInt(5), CategoryID: "cat-food-dining"}},
		{"unknown category", dto.CreateExpenseRequest{Title: "t", Amount: decimal.NewFromInt(5), CategoryID: "cat-missing"}},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CreateExpense(suite.ctx, alice.UserID, tc.req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_PersonalExpense() {
	suite.contacts.On("SaveParticipants", mock.Anything, alice.UserID, []dto.ParticipantInput(nil)).Return([]domain.User{}, nil).Once()
	suite.expenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return len(e.Shares) == 0 && !e.IsSplit
	})).Return(nil).Once()
	suite.balances.On("InvalidateBalances", []string{alice.UserID}).Once()

	expense, err := suite.service.CreateExpense(suite.ctx, alice.UserID, dto.CreateExpenseRequest{
		Title: "Groceries", Amount: decimal.RequireFromString("42.10"), CategoryID: "cat-food-dining",
	})

	suite.Require().NoError(err)
	suite.True(expense.Amount.Equal(expense.CreatorShare()))
}

func (suite *ExpenseServiceTestSuite) sharedExpense(paid bool) *domain.Expense {
	return &domain.Expense{
		ExpenseID:  "exp-1",
		Title:      "Dinner",
		Amount:     decimal.NewFromInt(90),
		CategoryID: "cat-food-dining",
		IsSplit:    true,
		Shares: []domain.ExpenseShare{
			{ShareID: "s1", ExpenseID: "exp-1", ParticipantID: bob.UserID, ShareAmount: decimal.NewFromInt(30), IsPaid: paid},
			{ShareID: "s2", ExpenseID: "exp-1", ParticipantID: carol.UserID, ShareAmount: decimal.NewFromInt(30)},
		},
		AuditFields: domain.AuditFields{CreatedBy: alice.UserID},
	}
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_AmountTooSmallToSplit() {
	participants := make([]dto.ParticipantInput, 20)
	for i := range participants {
		participants[i] = dto.ParticipantInput{Email: fmt.Sprintf("p%d@example.com", i)}
	}

	_, err := suite.service.CreateExpense(suite.ctx, alice.UserID, dto.CreateExpenseRequest{
		Title:        "Gum",
		Amount:       decimal.RequireFromString("0.10"),
		CategoryID:   "cat-food-dining",
		IsSplit:      true,
		Participants: participants,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.contacts.AssertNotCalled(suite.T(), "SaveParticipants", mock.Anything, mock.Anything, mock.Anything)
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_ResplitsAmount() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "exp-1").Return(suite.sharedExpense(false), nil).Once()
	suite.expenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Amount.Equal(decimal.NewFromInt(100)) && e.Shares[0].ShareAmount.Equal(decimal.RequireFromString("33.33"))
	})).Return(nil).Once()
	suite.balances.On("InvalidateBalances", []string{alice.UserID, bob.UserID, carol.UserID}).Once()

	amount := decimal.NewFromInt(100)
	expense, err := suite.service.UpdateExpense(suite.ctx, alice.UserID, "exp-1", dto.UpdateExpenseRequest{Amount: &amount})

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("33.34").Equal(expense.CreatorShare()))
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_PaidShareLocksAmount() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "exp-1").Return(suite.sharedExpense(true), nil).Once()

	amount := decimal.NewFromInt(120)
	_, err := suite.service.UpdateExpense(suite.ctx, alice.UserID, "exp-1", dto.UpdateExpenseRequest{Amount: &amount})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.expenseRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_SharePaidConcurrently() {
	// no paid share at read time; the store sees one under its row lock
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "exp-1").Return(suite.sharedExpense(false), nil).Once()
	suite.expenseRepo.On("UpdateExpense", mock.Anything, mock.Anything).
		Return(fmt.Errorf("expense exp-1 has settled shares, amount is locked: %w", apperrors.ErrConflict)).Once()

	amount := decimal.NewFromInt(90)
	expense, err := suite.service.UpdateExpense(suite.ctx, alice.UserID, "exp-1", dto.UpdateExpenseRequest{Amount: &amount})

	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.balances.AssertNotCalled(suite.T(), "InvalidateBalances", mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_OnlyCreator() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "exp-1").Return(suite.sharedExpense(false), nil).Once()

	title := "Mine now"
	_, err := suite.service.UpdateExpense(suite.ctx, bob.UserID, "exp-1", dto.UpdateExpenseRequest{Title: &title})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ExpenseServiceTestSuite) TestGetExpense_HiddenFromOutsiders() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "exp-1").Return(suite.sharedExpense(false), nil).Once()

	_, err := suite.service.GetExpense(suite.ctx, "u-mallory", "exp-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestSetSharePaid() {
	ref := []domain.ShareRef{{Kind: domain.SourceExpense, ShareID: "s1"}}
	suite.settlement.On("SettleShares", mock.Anything, bob.UserID, ref).Return(&domain.BulkResult{Items: []domain.BulkItemResult{
		{Kind: domain.SourceExpense, ID: "s1", Outcome: domain.OutcomeApplied},
	}}, nil).Once()

	item, err := suite.service.SetSharePaid(suite.ctx, bob.UserID, "s1", true)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeApplied, item.Outcome)

	_, err = suite.service.SetSharePaid(suite.ctx, bob.UserID, "s1", false)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_Outcomes() {
	suite.settlement.On("DeleteSources", mock.Anything, bob.UserID, []domain.SourceRef{{Kind: domain.SourceExpense, SourceID: "exp-1"}}).
		Return(&domain.BulkResult{Items: []domain.BulkItemResult{{Kind: domain.SourceExpense, ID: "exp-1", Outcome: domain.OutcomeForbidden}}}, nil).Once()
	suite.settlement.On("DeleteSources", mock.Anything, alice.UserID, []domain.SourceRef{{Kind: domain.SourceExpense, SourceID: "exp-2"}}).
		Return(&domain.BulkResult{Items: []domain.BulkItemResult{{Kind: domain.SourceExpense, ID: "exp-2", Outcome: domain.OutcomeNotFound}}}, nil).Once()

	suite.ErrorIs(suite.service.DeleteExpense(suite.ctx, bob.UserID, "exp-1"), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.DeleteExpense(suite.ctx, alice.UserID, "exp-2"), apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_PassesCursor() {
	next := "token-2"
	suite.expenseRepo.On("ListExpensesForUser", mock.Anything, alice.UserID, 20, (*string)(nil)).
		Return([]domain.Expense{*suite.sharedExpense(false)}, &next, nil).Once()

	expenses, token, err := suite.service.ListExpenses(suite.ctx, alice.UserID, dto.ListParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Len(expenses, 1)
	suite.Equal(&next, token)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
