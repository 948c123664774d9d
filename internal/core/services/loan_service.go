package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
	"github.com/google/uuid"
)

type loanService struct {
	BaseService
	loanRepo     portsrepo.LoanRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	contacts     portssvc.ContactSvcFacade
	settlement   portssvc.SettlementSvc
	notifier     recordNotifier
}

// LoanServiceOption is a functional option for configuring the loan service
type LoanServiceOption func(*loanService)

func WithLoanCategoryReader(repo portsrepo.CategoryReader) LoanServiceOption {
	return func(s *loanService) {
		s.categoryRepo = repo
	}
}

func WithLoanBalanceService(svc portssvc.BalanceSvc) LoanServiceOption {
	return func(s *loanService) {
		s.notifier.balances = svc
	}
}

func WithLoanEventPublisher(p events.Publisher) LoanServiceOption {
	return func(s *loanService) {
		s.notifier.publisher = p
	}
}

// NewLoanService creates the borrow/lend service.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, contactSvc portssvc.ContactSvcFacade, settlementSvc portssvc.SettlementSvc, options ...LoanServiceOption) portssvc.LoanSvcFacade {
	svc := &loanService{
		loanRepo:   loanRepo,
		contacts:   contactSvc,
		settlement: settlementSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func (s *loanService) CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("unknown direction %q: %w", req.Direction, apperrors.ErrValidation)
	}
	if len(req.Participants) == 0 {
		return nil, fmt.Errorf("a loan needs at least one counterparty: %w", apperrors.ErrValidation)
	}
	if err := checkCategory(ctx, s.categoryRepo, req.CategoryID); err != nil {
		return nil, err
	}

	counterparties, err := s.contacts.SaveParticipants(ctx, userID, req.Participants)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loan := domain.Loan{
		LoanID:      uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Direction:   req.Direction,
		Shares:      make([]domain.LoanShare, len(counterparties)),
		AuditFields: newAuditFields(userID, now),
	}
	// each counterparty owes or is owed the full amount
	for i, c := range counterparties {
		loan.Shares[i] = domain.LoanShare{
			ShareID:        uuid.NewString(),
			LoanID:         loan.LoanID,
			CounterpartyID: c.UserID,
			Counterparty:   c.Party(),
			Amount:         req.Amount,
		}
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.notifier.recordChanged(ctx, userID, domain.SourceLoan, loan.LoanID, loanUsers(&loan))
	s.LogInfo(ctx, "Loan created",
		slog.String("loan_id", loan.LoanID),
		slog.String("direction", string(loan.Direction)),
		slog.Int("counterparties", len(loan.Shares)))
	return &loan, nil
}

func (s *loanService) GetLoan(ctx context.Context, userID, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !isLoanParty(loan, userID) {
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
	return loan, nil
}

func (s *loanService) ListLoans(ctx context.Context, userID string, params dto.ListParams) ([]domain.Loan, *string, error) {
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	loans, next, err := s.loanRepo.ListLoansForUser(ctx, userID, params.Limit, token)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			s.LogError(ctx, err, "Failed to list loans", slog.String("user_id", userID))
		}
		return nil, nil, err
	}
	return loans, next, nil
}

func (s *loanService) UpdateLoan(ctx context.Context, userID, loanID string, req dto.UpdateLoanRequest) (*domain.Loan, error) {
	loan, err := s.GetLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if loan.CreatedBy != userID {
		return nil, fmt.Errorf("only the creator may edit loan %s: %w", loanID, apperrors.ErrForbidden)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title must not be blank: %w", apperrors.ErrValidation)
		}
		loan.Title = title
	}
	if req.Description != nil {
		loan.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil && *req.CategoryID != loan.CategoryID {
		if err := checkCategory(ctx, s.categoryRepo, *req.CategoryID); err != nil {
			return nil, err
		}
		loan.CategoryID = *req.CategoryID
	}

	amountChanged := req.Amount != nil && !req.Amount.Equal(loan.Amount)
	directionChanged := req.Direction != nil && *req.Direction != loan.Direction
	if amountChanged || directionChanged {
		if hasSettledShare(loan) {
			return nil, fmt.Errorf("loan %s has settled shares, amount and direction are locked: %w", loanID, apperrors.ErrConflict)
		}
	}
	if amountChanged {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
		}
		loan.Amount = *req.Amount
		for i := range loan.Shares {
			loan.Shares[i].Amount = *req.Amount
		}
	}
	if directionChanged {
		if !req.Direction.IsValid() {
			return nil, fmt.Errorf("unknown direction %q: %w", *req.Direction, apperrors.ErrValidation)
		}
		loan.Direction = *req.Direction
	}
	loan.LastUpdatedAt = time.Now()
	loan.LastUpdatedBy = userID

	if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update loan", slog.String("loan_id", loanID))
		}
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	s.notifier.recordChanged(ctx, userID, domain.SourceLoan, loan.LoanID, loanUsers(loan))
	s.LogInfo(ctx, "Loan updated", slog.String("loan_id", loanID))
	return loan, nil
}

func (s *loanService) DeleteLoan(ctx context.Context, userID, loanID string) error {
	result, err := s.settlement.DeleteSources(ctx, userID, []domain.SourceRef{{Kind: domain.SourceLoan, SourceID: loanID}})
	if err != nil {
		return err
	}
	_, err = singleItem(result, "loan")
	return err
}

func (s *loanService) SettleShare(ctx context.Context, userID, shareID string) (*domain.BulkItemResult, error) {
	result, err := s.settlement.SettleShares(ctx, userID, []domain.ShareRef{{Kind: domain.SourceLoan, ShareID: shareID}})
	if err != nil {
		return nil, err
	}
	return singleItem(result, "loan share")
}

func isLoanParty(l *domain.Loan, userID string) bool {
	if l.CreatedBy == userID {
		return true
	}
	for _, sh := range l.Shares {
		if sh.CounterpartyID == userID {
			return true
		}
	}
	return false
}

func hasSettledShare(l *domain.Loan) bool {
	for _, sh := range l.Shares {
		if sh.IsSettled {
			return true
		}
	}
	return false
}

func loanUsers(l *domain.Loan) []string {
	users := []string{l.CreatedBy}
	for _, sh := range l.Shares {
		users = append(users, sh.CounterpartyID)
	}
	return users
}
