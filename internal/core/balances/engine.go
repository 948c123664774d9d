package balances

import (
	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// Compute runs extraction, aggregation and grouping for viewer over one snapshot of records.
// Calling it twice with the same input yields identical output.
func Compute(viewer string, expenseShares []domain.ExpenseShareRecord, loanShares []domain.LoanShareRecord) domain.BalanceSummary {
	edges, faults := ExtractEdges(viewer, expenseShares, loanShares)
	totals := AggregateTotals(viewer, edges)
	owe, owed, groupFaults := GroupBySettlement(viewer, edges)

	return domain.BalanceSummary{
		UserID:        viewer,
		TotalOwedByMe: totals.OwedByMe,
		TotalOwedToMe: totals.OwedToMe,
		OweGroups:     owe,
		OwedGroups:    owed,
		Faults:        append(faults, groupFaults...),
	}
}
