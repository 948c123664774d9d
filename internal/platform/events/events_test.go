package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBulkEvent_OnlyAppliedItems(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	result := domain.BulkResult{Items: []domain.BulkItemResult{
		{Kind: domain.SourceExpense, ID: "s1", Outcome: domain.OutcomeApplied, AffectedUsers: []string{"alice", "me"}},
		{Kind: domain.SourceLoan, ID: "s2", Outcome: domain.OutcomeAlreadyDone},
		{Kind: domain.SourceLoan, ID: "s3", Outcome: domain.OutcomeApplied, AffectedUsers: []string{"bob", "me"}},
		{Kind: domain.SourceLoan, ID: "s4", Outcome: domain.OutcomeForbidden},
	}}

	evt, ok := NewBulkEvent(TypeSettlementApplied, "me", result, at)
	require.True(t, ok)

	assert.Equal(t, TypeSettlementApplied, evt.Type)
	assert.Equal(t, "me", evt.ActorID)
	assert.Equal(t, []string{"alice", "me", "bob"}, evt.AffectedUsers)
	require.Len(t, evt.Items, 2)
	assert.Equal(t, "s1", evt.Items[0].ID)
	assert.Equal(t, "s3", evt.Items[1].ID)
}

func TestNewBulkEvent_NothingApplied(t *testing.T) {
	result := domain.BulkResult{Items: []domain.BulkItemResult{
		{Kind: domain.SourceExpense, ID: "s1", Outcome: domain.OutcomeNotFound},
	}}
	_, ok := NewBulkEvent(TypeRecordsDeleted, "me", result, time.Now())
	assert.False(t, ok)
}

func TestEventJSON(t *testing.T) {
	evt := Event{
		Type:          TypeRecordChanged,
		ActorID:       "me",
		AffectedUsers: []string{"me", "alice"},
		Items:         []Item{{Kind: domain.SourceExpense, ID: "e1"}},
		OccurredAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	body, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "record.changed", decoded["type"])
	assert.Equal(t, "2024-01-01T00:00:00Z", decoded["occurredAt"])
	items := decoded["items"].([]any)
	assert.Equal(t, "EXPENSE", items[0].(map[string]any)["kind"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeRecordChanged}))
	assert.NoError(t, p.Close())
}
