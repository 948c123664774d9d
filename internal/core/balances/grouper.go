package balances

import (
	"sort"
	"strings"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupBySettlement partitions the unsettled edges touching viewer into "I owe" and
// "owed to me" groups, one group per counterparty and direction.
//
// Edges whose counterparty has no name or email are dropped from the groups and reported
// as missing-party faults, so every group total equals the sum of the edges it lists.
// Groups are ordered by counterparty name then id; edges by source creation time, then
// source id, then share id.
func GroupBySettlement(viewer string, edges []domain.DebtEdge) (owe, owed []domain.CounterpartyGroup, faults []domain.EdgeFault) {
	oweByParty := make(map[string]*domain.CounterpartyGroup)
	owedByParty := make(map[string]*domain.CounterpartyGroup)

	for _, e := range edges {
		if e.Settled {
			continue
		}

		var bucket map[string]*domain.CounterpartyGroup
		var direction domain.GroupDirection
		switch viewer {
		case e.Debtor.UserID:
			bucket, direction = oweByParty, domain.DirectionOwe
		case e.Creditor.UserID:
			bucket, direction = owedByParty, domain.DirectionOwed
		default:
			continue
		}

		counterparty := e.Counterparty(viewer)
		if !counterparty.IsComplete() {
			faults = append(faults, newFault(domain.FaultMissingParty, e,
				"counterparty "+counterparty.UserID+" has no name or email", apperrors.ErrMissingParty))
			continue
		}

		group, ok := bucket[counterparty.UserID]
		if !ok {
			group = &domain.CounterpartyGroup{
				Counterparty: counterparty,
				Direction:    direction,
				Total:        decimal.Zero,
			}
			bucket[counterparty.UserID] = group
		}
		group.Total = group.Total.Add(e.Amount)
		group.Edges = append(group.Edges, e)
	}

	return flattenGroups(oweByParty), flattenGroups(owedByParty), faults
}

func flattenGroups(byParty map[string]*domain.CounterpartyGroup) []domain.CounterpartyGroup {
	groups := make([]domain.CounterpartyGroup, 0, len(byParty))
	for _, g := range byParty {
		if len(g.Edges) == 0 {
			continue
		}
		sortEdges(g.Edges)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		ni, nj := strings.ToLower(groups[i].Counterparty.Name), strings.ToLower(groups[j].Counterparty.Name)
		if ni != nj {
			return ni < nj
		}
		return groups[i].Counterparty.UserID < groups[j].Counterparty.UserID
	})
	return groups
}

func sortEdges(edges []domain.DebtEdge) {
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if !a.SourceCreatedAt.Equal(b.SourceCreatedAt) {
			return a.SourceCreatedAt.Before(b.SourceCreatedAt)
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.ShareID < b.ShareID
	})
}

// NetByCounterparty combines the two directions per counterparty into owedToMe - iOwe.
// It is a display helper applied on top of the groups; the groups themselves stay gross.
func NetByCounterparty(owe, owed []domain.CounterpartyGroup) []domain.CounterpartyNet {
	byParty := make(map[string]*domain.CounterpartyNet)
	get := func(p domain.Party) *domain.CounterpartyNet {
		n, ok := byParty[p.UserID]
		if !ok {
			n = &domain.CounterpartyNet{Counterparty: p, OwedToMe: decimal.Zero, IOwe: decimal.Zero}
			byParty[p.UserID] = n
		}
		return n
	}
	for _, g := range owe {
		n := get(g.Counterparty)
		n.IOwe = n.IOwe.Add(g.Total)
	}
	for _, g := range owed {
		n := get(g.Counterparty)
		n.OwedToMe = n.OwedToMe.Add(g.Total)
	}

	nets := make([]domain.CounterpartyNet, 0, len(byParty))
	for _, n := range byParty {
		n.Net = n.OwedToMe.Sub(n.IOwe)
		nets = append(nets, *n)
	}
	sort.Slice(nets, func(i, j int) bool {
		ni, nj := strings.ToLower(nets[i].Counterparty.Name), strings.ToLower(nets[j].Counterparty.Name)
		if ni != nj {
			return ni < nj
		}
		return nets[i].Counterparty.UserID < nets[j].Counterparty.UserID
	})
	return nets
}
