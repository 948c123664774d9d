package services

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpense returns an expense the user created or participates in.
	GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)

	// ListExpenses returns a page of the user's expenses, newest first.
	ListExpenses(ctx context.Context, userID string, params dto.ListParams) ([]domain.Expense, *string, error)
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	CreateExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error

	// SetSharePaid marks one share paid. Paying is terminal.
	SetSharePaid(ctx context.Context, userID, shareID string, paid bool) (*domain.BulkItemResult, error)
}

// ExpenseSvcFacade combines all expense service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
