package balances

import (
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals holds the two gross sums seen from one user's side.
type Totals struct {
	OwedByMe decimal.Decimal
	OwedToMe decimal.Decimal
}

// AggregateTotals sums the unsettled edges where viewer is the debtor and, separately,
// where viewer is the creditor. The two sums are never netted against each other.
// Party names and emails are not needed here, only user ids.
func AggregateTotals(viewer string, edges []domain.DebtEdge) Totals {
	totals := Totals{OwedByMe: decimal.Zero, OwedToMe: decimal.Zero}
	for _, e := range edges {
		if e.Settled {
			continue
		}
		switch viewer {
		case e.Debtor.UserID:
			totals.OwedByMe = totals.OwedByMe.Add(e.Amount)
		case e.Creditor.UserID:
			totals.OwedToMe = totals.OwedToMe.Add(e.Amount)
		}
	}
	return totals
}
