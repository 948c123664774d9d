package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/balances"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/platform/cache"
	"golang.org/x/sync/errgroup"
)

type balanceService struct {
	BaseService
	reader portsrepo.BalanceReader
	cache  cache.BalanceCache
}

// BalanceServiceOption is a functional option for configuring the balance service
type BalanceServiceOption func(*balanceService)

// WithBalanceCache serves repeated reads from c until a mutation invalidates them.
func WithBalanceCache(c cache.BalanceCache) BalanceServiceOption {
	return func(s *balanceService) {
		s.cache = c
	}
}

// NewBalanceService creates the balance service over the record store reader.
func NewBalanceService(reader portsrepo.BalanceReader, options ...BalanceServiceOption) portssvc.BalanceSvc {
	svc := &balanceService{
		reader: reader,
		cache:  cache.NewBalanceCache(0, 0),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) ComputeBalances(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	if cached, ok := s.cache.Get(userID); ok {
		s.LogDebug(ctx, "Balances served from cache", slog.String("user_id", userID))
		return &cached, nil
	}
	// Read before the store; an invalidation during the reads makes Set a no-op.
	generation := s.cache.Generation(userID)

	var (
		expenseShares []domain.ExpenseShareRecord
		loanShares    []domain.LoanShareRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenseShares, err = s.reader.ListUnsettledExpenseShares(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		loanShares, err = s.reader.ListUnsettledLoanShares(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to read unsettled shares", slog.String("user_id", userID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	summary := balances.Compute(userID, expenseShares, loanShares)
	for _, f := range summary.Faults {
		s.LogWarn(ctx, "Debt record skipped",
			slog.String("fault", string(f.Kind)),
			slog.String("source_kind", string(f.SourceKind)),
			slog.String("source_id", f.SourceID),
			slog.String("share_id", f.ShareID),
			slog.String("reason", f.Reason))
	}

	if !s.cache.Set(userID, generation, summary) {
		s.LogDebug(ctx, "Balance summary not cached", slog.String("user_id", userID))
	}
	s.LogDebug(ctx, "Balances computed",
		slog.String("user_id", userID),
		slog.Int("expense_shares", len(expenseShares)),
		slog.Int("loan_shares", len(loanShares)),
		slog.Int("faults", len(summary.Faults)))
	return &summary, nil
}

func (s *balanceService) ComputeNetBalances(ctx context.Context, userID string) (*domain.BalanceSummary, []domain.CounterpartyNet, error) {
	summary, err := s.ComputeBalances(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return summary, balances.NetByCounterparty(summary.OweGroups, summary.OwedGroups), nil
}

func (s *balanceService) InvalidateBalances(userIDs ...string) {
	s.cache.Invalidate(userIDs...)
}
