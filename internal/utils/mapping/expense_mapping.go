package mapping

import (
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense. Shares are mapped separately.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		Title:       d.Title,
		Description: toNullString(d.Description),
		Amount:      d.Amount,
		CategoryID:  d.CategoryID,
		IsSplit:     d.IsSplit,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense without shares.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		Title:       m.Title,
		Description: m.Description.String,
		Amount:      m.Amount,
		CategoryID:  m.CategoryID,
		IsSplit:     m.IsSplit,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpenseShare converts a domain ExpenseShare to a model ExpenseShare
func ToModelExpenseShare(d domain.ExpenseShare) models.ExpenseShare {
	return models.ExpenseShare{
		ShareID:       d.ShareID,
		ExpenseID:     d.ExpenseID,
		ParticipantID: d.ParticipantID,
		ShareAmount:   d.ShareAmount,
		IsPaid:        d.IsPaid,
		PaidAt:        d.PaidAt,
	}
}

// ToDomainExpenseShare converts a model ExpenseShare to a domain ExpenseShare.
// The participant identity is filled in by the caller.
func ToDomainExpenseShare(m models.ExpenseShare) domain.ExpenseShare {
	return domain.ExpenseShare{
		ShareID:       m.ShareID,
		ExpenseID:     m.ExpenseID,
		ParticipantID: m.ParticipantID,
		ShareAmount:   m.ShareAmount,
		IsPaid:        m.IsPaid,
		PaidAt:        m.PaidAt,
	}
}
