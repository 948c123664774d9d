package mapping

import (
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan. Shares are mapped separately.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:      d.LoanID,
		Title:       d.Title,
		Description: toNullString(d.Description),
		Amount:      d.Amount,
		CategoryID:  d.CategoryID,
		Direction:   string(d.Direction),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan without shares.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:      m.LoanID,
		Title:       m.Title,
		Description: m.Description.String,
		Amount:      m.Amount,
		CategoryID:  m.CategoryID,
		Direction:   domain.LoanDirection(m.Direction),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLoanShare converts a domain LoanShare to a model LoanShare
func ToModelLoanShare(d domain.LoanShare) models.LoanShare {
	return models.LoanShare{
		ShareID:        d.ShareID,
		LoanID:         d.LoanID,
		CounterpartyID: d.CounterpartyID,
		Amount:         d.Amount,
		IsSettled:      d.IsSettled,
		SettledAt:      d.SettledAt,
	}
}

// ToDomainLoanShare converts a model LoanShare to a domain LoanShare
func ToDomainLoanShare(m models.LoanShare) domain.LoanShare {
	return domain.LoanShare{
		ShareID:        m.ShareID,
		LoanID:         m.LoanID,
		CounterpartyID: m.CounterpartyID,
		Amount:         m.Amount,
		IsSettled:      m.IsSettled,
		SettledAt:      m.SettledAt,
	}
}
