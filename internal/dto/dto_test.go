package dto

import (
	"testing"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBalanceSummaryResponse(t *testing.T) {
	bob := domain.Party{UserID: "u-bob", Name: "Bob", Email: "bob@example.com"}
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	summary := &domain.BalanceSummary{
		UserID:        "u-alice",
		TotalOwedByMe: decimal.RequireFromString("10"),
		TotalOwedToMe: decimal.RequireFromString("33.3333"),
		OweGroups: []domain.CounterpartyGroup{{
			Counterparty: bob,
			Direction:    domain.DirectionOwe,
			Total:        decimal.RequireFromString("10"),
			Edges: []domain.DebtEdge{{
				Creditor: bob, Amount: decimal.RequireFromString("10"),
				SourceKind: domain.SourceLoan, SourceID: "l1", ShareID: "ls1", Title: "Cab", SourceCreatedAt: created,
			}},
		}},
		Faults: []domain.EdgeFault{{Kind: domain.FaultMissingParty}},
	}

	res := ToBalanceSummaryResponse(summary, nil)

	assert.Equal(t, "10.00", res.TotalOwedByMe)
	assert.Equal(t, "33.33", res.TotalOwedToMe)
	require.Len(t, res.OweGroups, 1)
	assert.Equal(t, "Bob", res.OweGroups[0].Counterparty.Name)
	assert.Equal(t, "10.00", res.OweGroups[0].Edges[0].Amount)
	assert.Empty(t, res.OwedGroups)
	assert.NotNil(t, res.OwedGroups, "empty groups render as [] not null")
	assert.Nil(t, res.Net)
	assert.Equal(t, 1, res.SkippedRecords)

	res = ToBalanceSummaryResponse(summary, []domain.CounterpartyNet{{
		Counterparty: bob, OwedToMe: decimal.Zero, IOwe: decimal.NewFromInt(10), Net: decimal.NewFromInt(-10),
	}})
	require.Len(t, res.Net, 1)
	assert.Equal(t, "-10.00", res.Net[0].Net)
}

func TestToBulkResultResponse(t *testing.T) {
	res := ToBulkResultResponse(domain.BulkResult{Items: []domain.BulkItemResult{
		{Kind: domain.SourceExpense, ID: "s1", Outcome: domain.OutcomeApplied, AffectedUsers: []string{"a", "b"}},
		{Kind: domain.SourceExpense, ID: "s2", Outcome: domain.OutcomeAlreadyDone},
		{Kind: domain.SourceLoan, ID: "s3", Outcome: domain.OutcomeForbidden},
	}})

	assert.Len(t, res.Items, 3)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.AlreadyDone)
	assert.Equal(t, 0, res.NotFound)
	assert.Equal(t, 1, res.Forbidden)
}

func TestToExpenseResponse_CreatorShare(t *testing.T) {
	e := &domain.Expense{
		ExpenseID: "e1",
		Amount:    decimal.RequireFromString("100"),
		IsSplit:   true,
		Shares: []domain.ExpenseShare{
			{ShareID: "s1", ShareAmount: decimal.RequireFromString("33.33")},
			{ShareID: "s2", ShareAmount: decimal.RequireFromString("33.33")},
		},
	}

	res := ToExpenseResponse(e)

	assert.Equal(t, "100.00", res.Amount)
	assert.Equal(t, "33.34", res.CreatorShare)
	assert.Len(t, res.Shares, 2)
}
