package repositories

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// LoanReader defines read operations for borrow/lend records
type LoanReader interface {
	// FindLoanByID retrieves a loan together with its shares.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansForUser returns loans the user created or is a counterparty of, newest first.
	ListLoansForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Loan, *string, error)
}

// LoanWriter defines write operations for loans
type LoanWriter interface {
	// SaveLoan persists a loan and its shares atomically.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoan updates title, description, amount, category and direction of a loan.
	UpdateLoan(ctx context.Context, loan domain.Loan) error
}

// LoanRepositoryFacade combines all loan repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
