package cache

import (
	"testing"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func summaryFor(userID string, owed int64) domain.BalanceSummary {
	return domain.BalanceSummary{UserID: userID, TotalOwedToMe: decimal.NewFromInt(owed)}
}

func TestBalanceCache_SetGetInvalidate(t *testing.T) {
	c := NewBalanceCache(10, time.Minute)

	_, ok := c.Get("me")
	assert.False(t, ok)

	assert.True(t, c.Set("me", c.Generation("me"), summaryFor("me", 200)))
	assert.True(t, c.Set("alice", c.Generation("alice"), summaryFor("alice", 50)))

	got, ok := c.Get("me")
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(200).Equal(got.TotalOwedToMe))
	assert.Equal(t, 2, c.Len())

	c.Invalidate("me", "unknown")
	_, ok = c.Get("me")
	assert.False(t, ok)
	_, ok = c.Get("alice")
	assert.True(t, ok)
}

func TestBalanceCache_Evicts(t *testing.T) {
	c := NewBalanceCache(1, time.Minute)
	c.Set("me", 0, summaryFor("me", 1))
	c.Set("alice", 0, summaryFor("alice", 2))

	_, ok := c.Get("me")
	assert.False(t, ok, "least recently used entry is evicted")
	assert.Equal(t, 1, c.Len())
}

func TestBalanceCache_Expires(t *testing.T) {
	c := NewBalanceCache(10, 20*time.Millisecond)
	c.Set("me", 0, summaryFor("me", 1))

	assert.Eventually(t, func() bool {
		_, ok := c.Get("me")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestBalanceCache_Disabled(t *testing.T) {
	c := NewBalanceCache(0, time.Minute)
	c.Set("me", 0, summaryFor("me", 1))
	_, ok := c.Get("me")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestBalanceCache_SetAfterInvalidationIsDropped(t *testing.T) {
	c := NewBalanceCache(10, time.Minute)
	gen := c.Generation("me")

	c.Invalidate("me")
	assert.False(t, c.Set("me", gen, summaryFor("me", 100)))
	_, ok := c.Get("me")
	assert.False(t, ok)

	assert.True(t, c.Set("me", c.Generation("me"), summaryFor("me", 0)))
	_, ok = c.Get("me")
	assert.True(t, ok)
}

func TestBalanceCache_InvalidationOfOtherUserKeepsGeneration(t *testing.T) {
	c := NewBalanceCache(10, time.Minute)
	gen := c.Generation("me")
	c.Invalidate("alice")
	assert.True(t, c.Set("me", gen, summaryFor("me", 1)))
}

func TestBalanceCache_ReturnsCopies(t *testing.T) {
	c := NewBalanceCache(10, time.Minute)
	summary := summaryFor("me", 5)
	summary.OwedGroups = []domain.CounterpartyGroup{{
		Counterparty: domain.Party{UserID: "alice", Name: "Alice"},
		Edges:        []domain.DebtEdge{{ShareID: "s1"}},
	}}
	c.Set("me", 0, summary)
	summary.OwedGroups[0].Edges[0].ShareID = "mutated before read"

	got, ok := c.Get("me")
	assert.True(t, ok)
	assert.Equal(t, "s1", got.OwedGroups[0].Edges[0].ShareID)

	got.OwedGroups[0].Counterparty.Name = "mutated after read"
	again, _ := c.Get("me")
	assert.Equal(t, "Alice", again.OwedGroups[0].Counterparty.Name)
}
