package repositories

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// ExpenseReader defines read operations for expenses and their shares
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense together with its shares.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesForUser returns expenses the user created or participates in, newest first,
	// using token-based pagination. It returns the expenses, a token for the next page, and an error.
	ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	// SaveExpense persists an expense and its shares atomically.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense updates title, description, amount and category of an expense.
	UpdateExpense(ctx context.Context, expense domain.Expense) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
