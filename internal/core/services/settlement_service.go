package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
	"github.com/jackc/pgx/v5"
)

type settlementService struct {
	BaseService
	repo      portsrepo.SettlementRepositoryWithTx
	balances  portssvc.BalanceSvc
	publisher events.Publisher
	now       func() time.Time
}

// SettlementServiceOption is a functional option for configuring the settlement service
type SettlementServiceOption func(*settlementService)

// WithEventPublisher announces applied mutations through p.
func WithEventPublisher(p events.Publisher) SettlementServiceOption {
	return func(s *settlementService) {
		s.publisher = p
	}
}

// WithClock overrides the time source used for paid/settled timestamps.
func WithClock(now func() time.Time) SettlementServiceOption {
	return func(s *settlementService) {
		s.now = now
	}
}

// NewSettlementService creates the bulk settle/delete service. balanceSvc is told about every
// user whose balances change so cached summaries are dropped.
func NewSettlementService(repo portsrepo.SettlementRepositoryWithTx, balanceSvc portssvc.BalanceSvc, options ...SettlementServiceOption) portssvc.SettlementSvc {
	svc := &settlementService{
		repo:      repo,
		balances:  balanceSvc,
		publisher: events.NoopPublisher{},
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func (s *settlementService) SettleShares(ctx context.Context, userID string, refs []domain.ShareRef) (*domain.BulkResult, error) {
	for _, ref := range refs {
		if !ref.Kind.IsValid() || ref.ShareID == "" {
			return nil, fmt.Errorf("invalid share reference %q/%q: %w", ref.Kind, ref.ShareID, apperrors.ErrValidation)
		}
	}

	at := s.now().UTC()
	result, err := s.inTx(ctx, func(tx pgx.Tx) (*domain.BulkResult, error) {
		res := &domain.BulkResult{Items: make([]domain.BulkItemResult, 0, len(refs))}
		for _, ref := range dedupeShareRefs(refs) {
			item, err := s.repo.SettleShareTx(ctx, tx, userID, ref, at)
			if err != nil {
				return nil, err
			}
			res.Items = append(res.Items, item)
		}
		return res, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to settle shares", slog.String("user_id", userID), slog.Int("items", len(refs)))
		return nil, err
	}

	s.afterCommit(ctx, events.TypeSettlementApplied, userID, *result)
	s.LogInfo(ctx, "Shares settled",
		slog.String("user_id", userID),
		slog.Int("applied", result.Count(domain.OutcomeApplied)),
		slog.Int("already_done", result.Count(domain.OutcomeAlreadyDone)))
	return result, nil
}

func (s *settlementService) DeleteSources(ctx context.Context, userID string, refs []domain.SourceRef) (*domain.BulkResult, error) {
	for _, ref := range refs {
		if !ref.Kind.IsValid() || ref.SourceID == "" {
			return nil, fmt.Errorf("invalid source reference %q/%q: %w", ref.Kind, ref.SourceID, apperrors.ErrValidation)
		}
	}

	result, err := s.inTx(ctx, func(tx pgx.Tx) (*domain.BulkResult, error) {
		res := &domain.BulkResult{Items: make([]domain.BulkItemResult, 0, len(refs))}
		for _, ref := range dedupeSourceRefs(refs) {
			item, err := s.repo.DeleteSourceTx(ctx, tx, userID, ref)
			if err != nil {
				return nil, err
			}
			res.Items = append(res.Items, item)
		}
		return res, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete records", slog.String("user_id", userID), slog.Int("items", len(refs)))
		return nil, err
	}

	s.afterCommit(ctx, events.TypeRecordsDeleted, userID, *result)
	s.LogInfo(ctx, "Records deleted",
		slog.String("user_id", userID),
		slog.Int("applied", result.Count(domain.OutcomeApplied)),
		slog.Int("not_found", result.Count(domain.OutcomeNotFound)))
	return result, nil
}

// inTx runs fn in one transaction. Any error rolls back every item of the batch.
func (s *settlementService) inTx(ctx context.Context, fn func(tx pgx.Tx) (*domain.BulkResult, error)) (*domain.BulkResult, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer func() {
		// no-op once committed
		if rbErr := s.repo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back settlement transaction")
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

// afterCommit drops cached balances of every affected user and announces the change.
// Publishing is best effort; the mutation is already durable.
func (s *settlementService) afterCommit(ctx context.Context, eventType, actorID string, result domain.BulkResult) {
	evt, ok := events.NewBulkEvent(eventType, actorID, result, s.now().UTC())
	if !ok {
		return
	}
	if s.balances != nil {
		s.balances.InvalidateBalances(evt.AffectedUsers...)
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.LogError(ctx, err, "Failed to publish event", slog.String("event_type", eventType))
	}
}

// dedupeShareRefs drops repeated refs so one request cannot report a share twice.
func dedupeShareRefs(refs []domain.ShareRef) []domain.ShareRef {
	seen := make(map[domain.ShareRef]bool, len(refs))
	out := make([]domain.ShareRef, 0, len(refs))
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func dedupeSourceRefs(refs []domain.SourceRef) []domain.SourceRef {
	seen := make(map[domain.SourceRef]bool, len(refs))
	out := make([]domain.SourceRef, 0, len(refs))
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
