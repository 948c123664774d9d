// Package cache holds computed balance summaries between writes.
package cache

import (
	"sync"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// BalanceCache stores one BalanceSummary per viewing user. Entries are removed whenever
// a write touches that user and expire after the TTL regardless.
//
// Every Invalidate bumps a per-user generation. A reader takes Generation before it
// reads the record store and passes it to Set, which drops the summary if an
// invalidation landed in between. Summaries are copied on the way in and out.
type BalanceCache interface {
	Get(userID string) (domain.BalanceSummary, bool)
	Generation(userID string) uint64
	Set(userID string, generation uint64, summary domain.BalanceSummary) bool
	Invalidate(userIDs ...string)
	Len() int
}

// NewBalanceCache returns an LRU-backed cache, or a disabled cache when size is zero.
func NewBalanceCache(size int, ttl time.Duration) BalanceCache {
	if size <= 0 {
		return disabledCache{}
	}
	return &lruBalanceCache{
		lru:         expirable.NewLRU[string, domain.BalanceSummary](size, nil, ttl),
		generations: make(map[string]uint64),
	}
}

type lruBalanceCache struct {
	lru *expirable.LRU[string, domain.BalanceSummary]

	mu          sync.Mutex
	generations map[string]uint64
}

func (c *lruBalanceCache) Get(userID string) (domain.BalanceSummary, bool) {
	summary, ok := c.lru.Get(userID)
	if !ok {
		return domain.BalanceSummary{}, false
	}
	return cloneSummary(summary), true
}

func (c *lruBalanceCache) Generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}

func (c *lruBalanceCache) Set(userID string, generation uint64, summary domain.BalanceSummary) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != generation {
		return false
	}
	c.lru.Add(userID, cloneSummary(summary))
	return true
}

func (c *lruBalanceCache) Invalidate(userIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		c.generations[id]++
		c.lru.Remove(id)
	}
}

func (c *lruBalanceCache) Len() int {
	return c.lru.Len()
}

type disabledCache struct{}

func (disabledCache) Get(string) (domain.BalanceSummary, bool) { return domain.BalanceSummary{}, false }
func (disabledCache) Generation(string) uint64                  { return 0 }
func (disabledCache) Set(string, uint64, domain.BalanceSummary) bool {
	return false
}
func (disabledCache) Invalidate(...string) {}
func (disabledCache) Len() int             { return 0 }

func cloneSummary(s domain.BalanceSummary) domain.BalanceSummary {
	out := s
	out.OweGroups = cloneGroups(s.OweGroups)
	out.OwedGroups = cloneGroups(s.OwedGroups)
	if s.Faults != nil {
		out.Faults = append([]domain.EdgeFault(nil), s.Faults...)
	}
	return out
}

func cloneGroups(groups []domain.CounterpartyGroup) []domain.CounterpartyGroup {
	if groups == nil {
		return nil
	}
	out := make([]domain.CounterpartyGroup, len(groups))
	for i, g := range groups {
		out[i] = g
		if g.Edges != nil {
			out[i].Edges = append([]domain.DebtEdge(nil), g.Edges...)
		}
	}
	return out
}
