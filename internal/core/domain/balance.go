package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind tags which kind of record a debt edge came from.
type SourceKind string

const (
	SourceExpense SourceKind = "EXPENSE"
	SourceLoan    SourceKind = "LOAN"
)

// IsValid reports whether k is a known source kind.
func (k SourceKind) IsValid() bool {
	return k == SourceExpense || k == SourceLoan
}

// Party is the identity of a user as seen on a debt edge.
type Party struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// IsComplete reports whether the party can be displayed and grouped.
func (p Party) IsComplete() bool {
	return p.UserID != "" && p.Name != "" && p.Email != ""
}

// DebtEdge is a derived, directional debt: Debtor owes Creditor Amount.
// Edges are never stored.
type DebtEdge struct {
	Debtor          Party           `json:"debtor"`
	Creditor        Party           `json:"creditor"`
	Amount          decimal.Decimal `json:"amount"`
	SourceKind      SourceKind      `json:"sourceKind"`
	SourceID        string          `json:"sourceID"` // expense or loan id
	ShareID         string          `json:"shareID"`
	Title           string          `json:"title"`
	SourceCreatedAt time.Time       `json:"sourceCreatedAt"`
	Settled         bool            `json:"settled"`
}

// Counterparty returns the other party of the edge relative to userID.
func (e DebtEdge) Counterparty(userID string) Party {
	if e.Debtor.UserID == userID {
		return e.Creditor
	}
	return e.Debtor
}

// GroupDirection says whether the viewing user owes or is owed in a counterparty group.
type GroupDirection string

const (
	// DirectionOwe groups edges where the viewing user is the debtor.
	DirectionOwe GroupDirection = "OWE"
	// DirectionOwed groups edges where the viewing user is the creditor.
	DirectionOwed GroupDirection = "OWED"
)

// CounterpartyGroup is the unsettled edges between the viewing user and one counterparty
// in one direction.
type CounterpartyGroup struct {
	Counterparty Party           `json:"counterparty"`
	Direction    GroupDirection  `json:"direction"`
	Total        decimal.Decimal `json:"total"`
	Edges        []DebtEdge      `json:"edges"`
}

// CounterpartyNet is owedToMe minus iOwe for one counterparty.
type CounterpartyNet struct {
	Counterparty Party           `json:"counterparty"`
	OwedToMe     decimal.Decimal `json:"owedToMe"`
	IOwe         decimal.Decimal `json:"iOwe"`
	Net          decimal.Decimal `json:"net"`
}

// FaultKind classifies a per-edge problem found during aggregation.
type FaultKind string

const (
	FaultValidation   FaultKind = "VALIDATION"
	FaultMissingParty FaultKind = "MISSING_PARTY"
)

// EdgeFault records an edge that was excluded from part of the output.
type EdgeFault struct {
	Kind       FaultKind  `json:"kind"`
	SourceKind SourceKind `json:"sourceKind"`
	SourceID   string     `json:"sourceID"`
	ShareID    string     `json:"shareID"`
	Reason     string     `json:"reason"`
	Err        error      `json:"-"`
}

// BalanceSummary is the result of computing balances for one viewing user.
type BalanceSummary struct {
	UserID        string              `json:"userID"`
	TotalOwedByMe decimal.Decimal     `json:"totalOwedByMe"`
	TotalOwedToMe decimal.Decimal     `json:"totalOwedToMe"`
	OweGroups     []CounterpartyGroup `json:"oweGroups"`
	OwedGroups    []CounterpartyGroup `json:"owedGroups"`
	Faults        []EdgeFault         `json:"faults,omitempty"`
}

// ShareRef points at one expense share or loan share to settle.
type ShareRef struct {
	Kind    SourceKind `json:"kind"`
	ShareID string     `json:"shareID"`
}

// SourceRef points at one expense or loan to delete.
type SourceRef struct {
	Kind     SourceKind `json:"kind"`
	SourceID string     `json:"sourceID"`
}

// ItemOutcome is the per-record result of a bulk mutation.
type ItemOutcome string

const (
	OutcomeApplied     ItemOutcome = "APPLIED"
	OutcomeAlreadyDone ItemOutcome = "ALREADY_DONE"
	OutcomeNotFound    ItemOutcome = "NOT_FOUND"
	OutcomeForbidden   ItemOutcome = "FORBIDDEN"
)

// BulkItemResult reports what happened to one record of a bulk mutation.
type BulkItemResult struct {
	Kind    SourceKind  `json:"kind"`
	ID      string      `json:"id"`
	Outcome ItemOutcome `json:"outcome"`
	// AffectedUsers are the users whose balances change, used for cache invalidation.
	AffectedUsers []string `json:"-"`
}

// BulkResult reports a bulk settle or delete.
type BulkResult struct {
	Items []BulkItemResult `json:"items"`
}

// Count returns how many items ended with the given outcome.
func (r BulkResult) Count(o ItemOutcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}
