// Package events publishes notifications about settled and deleted records so that other
// consumers (notification workers, sheet exporters) can react without polling.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

const (
	TypeSettlementApplied = "settlement.applied"
	TypeRecordsDeleted    = "records.deleted"
	TypeRecordChanged     = "record.changed"
)

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Item is one record touched by the event.
type Item struct {
	Kind    domain.SourceKind  `json:"kind"`
	ID      string             `json:"id"`
	Outcome domain.ItemOutcome `json:"outcome,omitempty"`
}

// Event is the JSON message body.
type Event struct {
	Type          string    `json:"type"`
	ActorID       string    `json:"actorID"`
	AffectedUsers []string  `json:"affectedUsers"`
	Items         []Item    `json:"items"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewBulkEvent builds an event from the applied items of a bulk result.
// It returns false when nothing was applied, in which case there is nothing to announce.
func NewBulkEvent(eventType, actorID string, result domain.BulkResult, at time.Time) (Event, bool) {
	evt := Event{Type: eventType, ActorID: actorID, OccurredAt: at}
	seen := map[string]bool{}
	for _, it := range result.Items {
		if it.Outcome != domain.OutcomeApplied {
			continue
		}
		evt.Items = append(evt.Items, Item{Kind: it.Kind, ID: it.ID, Outcome: it.Outcome})
		for _, u := range it.AffectedUsers {
			if u != "" && !seen[u] {
				seen[u] = true
				evt.AffectedUsers = append(evt.AffectedUsers, u)
			}
		}
	}
	return evt, len(evt.Items) > 0
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
