package repositories

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// BalanceReader exposes the two reads the balance engine needs, both scoped to one user.
type BalanceReader interface {
	// ListUnsettledExpenseShares returns unpaid shares where the user is the participant,
	// and unpaid shares of expenses the user created where someone else is the participant.
	ListUnsettledExpenseShares(ctx context.Context, userID string) ([]domain.ExpenseShareRecord, error)

	// ListUnsettledLoanShares returns unsettled shares of loans the user created or is the
	// counterparty of.
	ListUnsettledLoanShares(ctx context.Context, userID string) ([]domain.LoanShareRecord, error)
}
