package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
)

// recordNotifier tells the balance cache and event consumers that a record changed.
type recordNotifier struct {
	BaseService
	balances  portssvc.BalanceSvc
	publisher events.Publisher
}

func (n *recordNotifier) recordChanged(ctx context.Context, actorID string, kind domain.SourceKind, id string, users []string) {
	if n.balances != nil {
		n.balances.InvalidateBalances(users...)
	}
	if n.publisher == nil {
		return
	}
	evt := events.Event{
		Type:          events.TypeRecordChanged,
		ActorID:       actorID,
		AffectedUsers: users,
		Items:         []events.Item{{Kind: kind, ID: id}},
		OccurredAt:    time.Now().UTC(),
	}
	if err := n.publisher.Publish(ctx, evt); err != nil {
		n.LogError(ctx, err, "Failed to publish event", slog.String("event_type", evt.Type), slog.String("id", id))
	}
}

// singleItem turns the outcome of a one-record bulk call into an error for the
// single-record endpoints. ALREADY_DONE is not an error.
func singleItem(result *domain.BulkResult, what string) (*domain.BulkItemResult, error) {
	if result == nil || len(result.Items) != 1 {
		return nil, fmt.Errorf("%s: unexpected bulk result", what)
	}
	item := result.Items[0]
	switch item.Outcome {
	case domain.OutcomeNotFound:
		return nil, fmt.Errorf("%s %s: %w", what, item.ID, apperrors.ErrNotFound)
	case domain.OutcomeForbidden:
		return nil, fmt.Errorf("%s %s: %w", what, item.ID, apperrors.ErrForbidden)
	}
	return &item, nil
}

func newAuditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
