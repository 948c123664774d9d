package services

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/dto"
)

// LoanReaderSvc defines read operations for loans
type LoanReaderSvc interface {
	GetLoan(ctx context.Context, userID, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, userID string, params dto.ListParams) ([]domain.Loan, *string, error)
}

// LoanWriterSvc defines write operations for loans
type LoanWriterSvc interface {
	CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, userID, loanID string, req dto.UpdateLoanRequest) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, userID, loanID string) error

	// SettleShare marks one loan share settled. Settling is terminal.
	SettleShare(ctx context.Context, userID, shareID string) (*domain.BulkItemResult, error)
}

// LoanSvcFacade combines all loan service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}
