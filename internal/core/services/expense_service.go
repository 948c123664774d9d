package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/balances"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type expenseService struct {
	BaseService
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	contacts     portssvc.ContactSvcFacade
	settlement   portssvc.SettlementSvc
	notifier     recordNotifier
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithExpenseCategoryReader validates category ids before saving.
func WithExpenseCategoryReader(repo portsrepo.CategoryReader) ExpenseServiceOption {
	return func(s *expenseService) {
		s.categoryRepo = repo
	}
}

// WithExpenseBalanceService invalidates cached balances of everyone on a changed expense.
func WithExpenseBalanceService(svc portssvc.BalanceSvc) ExpenseServiceOption {
	return func(s *expenseService) {
		s.notifier.balances = svc
	}
}

// WithExpenseEventPublisher announces created and updated expenses.
func WithExpenseEventPublisher(p events.Publisher) ExpenseServiceOption {
	return func(s *expenseService) {
		s.notifier.publisher = p
	}
}

// NewExpenseService creates the expense service. Deletes and share payments go through
// settlementSvc so they share its transaction and cache handling.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, contactSvc portssvc.ContactSvcFacade, settlementSvc portssvc.SettlementSvc, options ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		expenseRepo: expenseRepo,
		contacts:    contactSvc,
		settlement:  settlementSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}
	if req.IsSplit && len(req.Participants) == 0 {
		return nil, fmt.Errorf("a split expense needs at least one participant: %w", apperrors.ErrValidation)
	}
	if !req.IsSplit && len(req.Participants) > 0 {
		return nil, fmt.Errorf("participants are only allowed on split expenses: %w", apperrors.ErrValidation)
	}
	if req.IsSplit {
		// rejects amounts below one minor unit per party before any contact is saved
		if _, _, err := balances.SplitEqually(req.Amount, len(req.Participants)); err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
	}
	if err := checkCategory(ctx, s.categoryRepo, req.CategoryID); err != nil {
		return nil, err
	}

	participants, err := s.contacts.SaveParticipants(ctx, userID, req.Participants)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		IsSplit:     req.IsSplit,
		AuditFields: newAuditFields(userID, now),
	}
	if len(participants) > 0 {
		amounts, _, err := balances.SplitEqually(req.Amount, len(participants))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		expense.Shares = make([]domain.ExpenseShare, len(participants))
		for i, p := range participants {
			expense.Shares[i] = domain.ExpenseShare{
				ShareID:       uuid.NewString(),
				ExpenseID:     expense.ExpenseID,
				ParticipantID: p.UserID,
				Participant:   p.Party(),
				ShareAmount:   amounts[i],
			}
		}
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.notifier.recordChanged(ctx, userID, domain.SourceExpense, expense.ExpenseID, expenseUsers(&expense))
	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.Int("participants", len(expense.Shares)))
	return &expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !isExpenseParty(expense, userID) {
		// not visible to outsiders
		return nil, fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID string, params dto.ListParams) ([]domain.Expense, *string, error) {
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	expenses, next, err := s.expenseRepo.ListExpensesForUser(ctx, userID, params.Limit, token)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", userID))
		}
		return nil, nil, err
	}
	return expenses, next, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	expense, err := s.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy != userID {
		return nil, fmt.Errorf("only the creator may edit expense %s: %w", expenseID, apperrors.ErrForbidden)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title must not be blank: %w", apperrors.ErrValidation)
		}
		expense.Title = title
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil && *req.CategoryID != expense.CategoryID {
		if err := checkCategory(ctx, s.categoryRepo, *req.CategoryID); err != nil {
			return nil, err
		}
		expense.CategoryID = *req.CategoryID
	}
	if req.Amount != nil && !req.Amount.Equal(expense.Amount) {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
		}
		if err := resplitExpense(expense, *req.Amount); err != nil {
			return nil, err
		}
	}
	expense.LastUpdatedAt = time.Now()
	expense.LastUpdatedBy = userID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.notifier.recordChanged(ctx, userID, domain.SourceExpense, expense.ExpenseID, expenseUsers(expense))
	s.LogInfo(ctx, "Expense updated", slog.String("expense_id", expenseID))
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	result, err := s.settlement.DeleteSources(ctx, userID, []domain.SourceRef{{Kind: domain.SourceExpense, SourceID: expenseID}})
	if err != nil {
		return err
	}
	_, err = singleItem(result, "expense")
	return err
}

func (s *expenseService) SetSharePaid(ctx context.Context, userID, shareID string, paid bool) (*domain.BulkItemResult, error) {
	if !paid {
		return nil, fmt.Errorf("a paid share cannot be marked unpaid: %w", apperrors.ErrValidation)
	}
	result, err := s.settlement.SettleShares(ctx, userID, []domain.ShareRef{{Kind: domain.SourceExpense, ShareID: shareID}})
	if err != nil {
		return nil, err
	}
	return singleItem(result, "expense share")
}

// resplitExpense spreads a new amount equally over the existing participants.
// Paid shares are final, so an expense with any paid share keeps its amount.
func resplitExpense(expense *domain.Expense, amount decimal.Decimal) error {
	if len(expense.Shares) > 0 {
		for _, sh := range expense.Shares {
			if sh.IsPaid {
				return fmt.Errorf("expense %s has paid shares, amount is locked: %w", expense.ExpenseID, apperrors.ErrConflict)
			}
		}
		amounts, _, err := balances.SplitEqually(amount, len(expense.Shares))
		if err != nil {
			return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		for i := range expense.Shares {
			expense.Shares[i].ShareAmount = amounts[i]
		}
	}
	expense.Amount = amount
	return nil
}

func isExpenseParty(e *domain.Expense, userID string) bool {
	if e.CreatedBy == userID {
		return true
	}
	for _, sh := range e.Shares {
		if sh.ParticipantID == userID {
			return true
		}
	}
	return false
}

func expenseUsers(e *domain.Expense) []string {
	users := []string{e.CreatedBy}
	for _, sh := range e.Shares {
		users = append(users, sh.ParticipantID)
	}
	return users
}

// checkCategory turns an unknown category into a validation error. A nil reader skips the check
// and leaves it to the foreign key.
func checkCategory(ctx context.Context, repo portsrepo.CategoryReader, categoryID string) error {
	if categoryID == "" {
		return fmt.Errorf("category is required: %w", apperrors.ErrValidation)
	}
	if repo == nil {
		return nil
	}
	if _, err := repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("unknown category %s: %w", categoryID, apperrors.ErrValidation)
		}
		return err
	}
	return nil
}
