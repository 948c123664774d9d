package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// BalanceParams defines query parameters for the balances endpoint.
type BalanceParams struct {
	Net bool `form:"net"`
}

// DebtEdgeResponse is one unsettled debt inside a counterparty group.
type DebtEdgeResponse struct {
	SourceKind      domain.SourceKind `json:"sourceKind"`
	SourceID        string            `json:"sourceID"`
	ShareID         string            `json:"shareID"`
	Title           string            `json:"title"`
	Amount          string            `json:"amount"`
	SourceCreatedAt time.Time         `json:"sourceCreatedAt"`
}

// CounterpartyGroupResponse is the set of debts to settle with one counterparty in one direction.
type CounterpartyGroupResponse struct {
	Counterparty PartyResponse         `json:"counterparty"`
	Direction    domain.GroupDirection `json:"direction"`
	Total        string                `json:"total"`
	Edges        []DebtEdgeResponse    `json:"edges"`
}

// CounterpartyNetResponse is owedToMe minus iOwe for one counterparty.
type CounterpartyNetResponse struct {
	Counterparty PartyResponse `json:"counterparty"`
	OwedToMe     string        `json:"owedToMe"`
	IOwe         string        `json:"iOwe"`
	Net          string        `json:"net"`
}

// BalanceSummaryResponse defines the data returned for the viewing user's balances.
// Totals are gross; groups never net the two directions against each other.
type BalanceSummaryResponse struct {
	TotalOwedByMe string                      `json:"totalOwedByMe"`
	TotalOwedToMe string                      `json:"totalOwedToMe"`
	OweGroups     []CounterpartyGroupResponse `json:"oweGroups"`
	OwedGroups    []CounterpartyGroupResponse `json:"owedGroups"`
	Net           []CounterpartyNetResponse   `json:"net,omitempty"`
	// SkippedRecords counts records left out of the groups because they were malformed or
	// missing a counterparty name or email.
	SkippedRecords int `json:"skippedRecords"`
}

// ToBalanceSummaryResponse converts a computed summary. net may be nil.
func ToBalanceSummaryResponse(s *domain.BalanceSummary, net []domain.CounterpartyNet) BalanceSummaryResponse {
	res := BalanceSummaryResponse{
		TotalOwedByMe:  formatAmount(s.TotalOwedByMe),
		TotalOwedToMe:  formatAmount(s.TotalOwedToMe),
		OweGroups:      toGroupResponses(s.OweGroups),
		OwedGroups:     toGroupResponses(s.OwedGroups),
		SkippedRecords: len(s.Faults),
	}
	if net != nil {
		res.Net = make([]CounterpartyNetResponse, len(net))
		for i, n := range net {
			res.Net[i] = CounterpartyNetResponse{
				Counterparty: toPartyResponse(n.Counterparty),
				OwedToMe:     formatAmount(n.OwedToMe),
				IOwe:         formatAmount(n.IOwe),
				Net:          formatAmount(n.Net),
			}
		}
	}
	return res
}

func toGroupResponses(groups []domain.CounterpartyGroup) []CounterpartyGroupResponse {
	res := make([]CounterpartyGroupResponse, len(groups))
	for i, g := range groups {
		edges := make([]DebtEdgeResponse, len(g.Edges))
		for j, e := range g.Edges {
			edges[j] = DebtEdgeResponse{
				SourceKind:      e.SourceKind,
				SourceID:        e.SourceID,
				ShareID:         e.ShareID,
				Title:           e.Title,
				Amount:          formatAmount(e.Amount),
				SourceCreatedAt: e.SourceCreatedAt,
			}
		}
		res[i] = CounterpartyGroupResponse{
			Counterparty: toPartyResponse(g.Counterparty),
			Direction:    g.Direction,
			Total:        formatAmount(g.Total),
			Edges:        edges,
		}
	}
	return res
}
