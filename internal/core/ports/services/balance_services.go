package services

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// BalanceSvc computes what the viewing user owes and is owed.
type BalanceSvc interface {
	// ComputeBalances returns gross totals and per-counterparty groups for userID.
	// A record store failure yields apperrors.ErrUpstreamUnavailable, never partial totals.
	ComputeBalances(ctx context.Context, userID string) (*domain.BalanceSummary, error)

	// ComputeNetBalances is ComputeBalances plus owedToMe - iOwe per counterparty.
	ComputeNetBalances(ctx context.Context, userID string) (*domain.BalanceSummary, []domain.CounterpartyNet, error)

	// InvalidateBalances drops any cached summary of the given users.
	InvalidateBalances(userIDs ...string)
}

// SettlementSvc applies bulk settle and delete mutations atomically.
type SettlementSvc interface {
	// SettleShares marks every referenced share paid or settled.
	SettleShares(ctx context.Context, userID string, refs []domain.ShareRef) (*domain.BulkResult, error)

	// DeleteSources deletes every referenced expense or loan created by userID.
	DeleteSources(ctx context.Context, userID string, refs []domain.SourceRef) (*domain.BulkResult, error)
}
