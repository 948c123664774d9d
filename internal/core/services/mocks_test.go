package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserByEmail(ctx context.Context, user domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	var c *domain.Category
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Category)
	}
	return c, args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	var cs []domain.Category
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Category)
	}
	return cs, args.Error(1)
}

func (m *MockCategoryRepository) CountCategoryUsage(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	return m.Called(ctx, categoryID).Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var e *domain.Expense
	if args.Get(0) != nil {
		e = args.Get(0).(*domain.Expense)
	}
	return e, args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	var es []domain.Expense
	if args.Get(0) != nil {
		es = args.Get(0).([]domain.Expense)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return es, next, args.Error(2)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	var l *domain.Loan
	if args.Get(0) != nil {
		l = args.Get(0).(*domain.Loan)
	}
	return l, args.Error(1)
}

func (m *MockLoanRepository) ListLoansForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Loan, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	var ls []domain.Loan
	if args.Get(0) != nil {
		ls = args.Get(0).([]domain.Loan)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return ls, next, args.Error(2)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *MockLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

// --- Mock BalanceReader ---
type MockBalanceReader struct {
	mock.Mock
}

func (m *MockBalanceReader) ListUnsettledExpenseShares(ctx context.Context, userID string) ([]domain.ExpenseShareRecord, error) {
	args := m.Called(ctx, userID)
	var rs []domain.ExpenseShareRecord
	if args.Get(0) != nil {
		rs = args.Get(0).([]domain.ExpenseShareRecord)
	}
	return rs, args.Error(1)
}

func (m *MockBalanceReader) ListUnsettledLoanShares(ctx context.Context, userID string) ([]domain.LoanShareRecord, error) {
	args := m.Called(ctx, userID)
	var rs []domain.LoanShareRecord
	if args.Get(0) != nil {
		rs = args.Get(0).([]domain.LoanShareRecord)
	}
	return rs, args.Error(1)
}

// --- Mock SettlementRepository ---
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockSettlementRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockSettlementRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockSettlementRepository) SettleShareTx(ctx context.Context, tx pgx.Tx, userID string, ref domain.ShareRef, at time.Time) (domain.BulkItemResult, error) {
	args := m.Called(ctx, tx, userID, ref, at)
	return args.Get(0).(domain.BulkItemResult), args.Error(1)
}

func (m *MockSettlementRepository) DeleteSourceTx(ctx context.Context, tx pgx.Tx, userID string, ref domain.SourceRef) (domain.BulkItemResult, error) {
	args := m.Called(ctx, tx, userID, ref)
	return args.Get(0).(domain.BulkItemResult), args.Error(1)
}

// --- Mock APITokenRepository ---
type MockAPITokenRepository struct {
	mock.Mock
}

func (m *MockAPITokenRepository) Create(ctx context.Context, token domain.APIToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAPITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	args := m.Called(ctx, id)
	var t *domain.APIToken
	if args.Get(0) != nil {
		t = args.Get(0).(*domain.APIToken)
	}
	return t, args.Error(1)
}

func (m *MockAPITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	args := m.Called(ctx, userID)
	var ts []domain.APIToken
	if args.Get(0) != nil {
		ts = args.Get(0).([]domain.APIToken)
	}
	return ts, args.Error(1)
}

func (m *MockAPITokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockAPITokenRepository) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

// --- Mock services ---
type MockBalanceSvc struct {
	mock.Mock
}

func (m *MockBalanceSvc) ComputeBalances(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	args := m.Called(ctx, userID)
	var s *domain.BalanceSummary
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.BalanceSummary)
	}
	return s, args.Error(1)
}

func (m *MockBalanceSvc) ComputeNetBalances(ctx context.Context, userID string) (*domain.BalanceSummary, []domain.CounterpartyNet, error) {
	args := m.Called(ctx, userID)
	var s *domain.BalanceSummary
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.BalanceSummary)
	}
	var n []domain.CounterpartyNet
	if args.Get(1) != nil {
		n = args.Get(1).([]domain.CounterpartyNet)
	}
	return s, n, args.Error(2)
}

func (m *MockBalanceSvc) InvalidateBalances(userIDs ...string) {
	m.Called(userIDs)
}

type MockSettlementSvc struct {
	mock.Mock
}

func (m *MockSettlementSvc) SettleShares(ctx context.Context, userID string, refs []domain.ShareRef) (*domain.BulkResult, error) {
	args := m.Called(ctx, userID, refs)
	var r *domain.BulkResult
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.BulkResult)
	}
	return r, args.Error(1)
}

func (m *MockSettlementSvc) DeleteSources(ctx context.Context, userID string, refs []domain.SourceRef) (*domain.BulkResult, error) {
	args := m.Called(ctx, userID, refs)
	var r *domain.BulkResult
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.BulkResult)
	}
	return r, args.Error(1)
}

type MockContactSvc struct {
	mock.Mock
}

func (m *MockContactSvc) ListContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID)
	var cs []domain.Contact
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Contact)
	}
	return cs, args.Error(1)
}

func (m *MockContactSvc) UpsertContact(ctx context.Context, userID string, req dto.UpsertContactRequest) (*domain.Contact, error) {
	args := m.Called(ctx, userID, req)
	var c *domain.Contact
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Contact)
	}
	return c, args.Error(1)
}

func (m *MockContactSvc) UpdateContactNickname(ctx context.Context, userID, contactID string, req dto.UpdateContactRequest) (*domain.Contact, error) {
	args := m.Called(ctx, userID, contactID, req)
	var c *domain.Contact
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Contact)
	}
	return c, args.Error(1)
}

func (m *MockContactSvc) DeleteContact(ctx context.Context, userID, contactID string) error {
	return m.Called(ctx, userID, contactID).Error(0)
}

func (m *MockContactSvc) SaveParticipants(ctx context.Context, userID string, participants []dto.ParticipantInput) ([]domain.User, error) {
	args := m.Called(ctx, userID, participants)
	var us []domain.User
	if args.Get(0) != nil {
		us = args.Get(0).([]domain.User)
	}
	return us, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt events.Event) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
