// Package balances turns expense and loan share records into debt edges, totals and
// per-counterparty groups. Everything here is a pure function over a snapshot of records.
package balances

import (
	"fmt"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// ExtractEdges converts the share records visible to viewer into directional debt edges.
//
// Records are expected to be scoped to viewer already. Malformed edges (self-debt, negative
// amount, unknown loan direction, or an edge that does not involve viewer) are excluded and
// returned as validation faults; extraction carries on with the remaining records.
func ExtractEdges(viewer string, expenseShares []domain.ExpenseShareRecord, loanShares []domain.LoanShareRecord) ([]domain.DebtEdge, []domain.EdgeFault) {
	edges := make([]domain.DebtEdge, 0, len(expenseShares)+len(loanShares))
	var faults []domain.EdgeFault

	for _, rec := range expenseShares {
		edge := domain.DebtEdge{
			Debtor:          rec.Participant,
			Creditor:        rec.Creator,
			Amount:          rec.Share.ShareAmount,
			SourceKind:      domain.SourceExpense,
			SourceID:        rec.Expense.ExpenseID,
			ShareID:         rec.Share.ShareID,
			Title:           rec.Expense.Title,
			SourceCreatedAt: rec.Expense.CreatedAt,
			Settled:         rec.Share.IsPaid,
		}
		if fault, ok := validateEdge(viewer, edge); !ok {
			faults = append(faults, fault)
			continue
		}
		edges = append(edges, edge)
	}

	for _, rec := range loanShares {
		edge := domain.DebtEdge{
			Amount:          rec.Share.Amount,
			SourceKind:      domain.SourceLoan,
			SourceID:        rec.Loan.LoanID,
			ShareID:         rec.Share.ShareID,
			Title:           rec.Loan.Title,
			SourceCreatedAt: rec.Loan.CreatedAt,
			Settled:         rec.Share.IsSettled,
		}
		switch rec.Loan.Direction {
		case domain.Borrow:
			// the creator borrowed from the counterparty
			edge.Debtor, edge.Creditor = rec.Creator, rec.Counterparty
		case domain.Lend:
			edge.Debtor, edge.Creditor = rec.Counterparty, rec.Creator
		default:
			faults = append(faults, newFault(domain.FaultValidation, edge,
				fmt.Sprintf("unknown loan direction %q", rec.Loan.Direction), apperrors.ErrValidation))
			continue
		}
		if fault, ok := validateEdge(viewer, edge); !ok {
			faults = append(faults, fault)
			continue
		}
		edges = append(edges, edge)
	}

	return edges, faults
}

func validateEdge(viewer string, edge domain.DebtEdge) (domain.EdgeFault, bool) {
	switch {
	case edge.Debtor.UserID == "" || edge.Creditor.UserID == "":
		return newFault(domain.FaultValidation, edge, "edge is missing a debtor or creditor id", apperrors.ErrValidation), false
	case edge.Debtor.UserID == edge.Creditor.UserID:
		return newFault(domain.FaultValidation, edge, "debtor and creditor are the same user", apperrors.ErrValidation), false
	case edge.Amount.IsNegative():
		return newFault(domain.FaultValidation, edge, "negative amount "+edge.Amount.String(), apperrors.ErrValidation), false
	case viewer != "" && edge.Debtor.UserID != viewer && edge.Creditor.UserID != viewer:
		return newFault(domain.FaultValidation, edge, "edge does not involve the viewing user", apperrors.ErrValidation), false
	}
	return domain.EdgeFault{}, true
}

func newFault(kind domain.FaultKind, edge domain.DebtEdge, reason string, sentinel error) domain.EdgeFault {
	return domain.EdgeFault{
		Kind:       kind,
		SourceKind: edge.SourceKind,
		SourceID:   edge.SourceID,
		ShareID:    edge.ShareID,
		Reason:     reason,
		Err:        fmt.Errorf("%s %s share %s: %s: %w", edge.SourceKind, edge.SourceID, edge.ShareID, reason, sentinel),
	}
}
