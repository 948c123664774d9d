package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanDirection tells whether the creator borrowed or lent.
type LoanDirection string

const (
	// Borrow means the creator borrowed from each counterparty.
	Borrow LoanDirection = "BORROW"
	// Lend means the creator lent to each counterparty.
	Lend LoanDirection = "LEND"
)

// IsValid reports whether d is a known direction.
func (d LoanDirection) IsValid() bool {
	return d == Borrow || d == Lend
}

// Loan is an informal borrow/lend record.
type Loan struct {
	LoanID      string          `json:"loanID"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryID"`
	Direction   LoanDirection   `json:"direction"`
	Shares      []LoanShare     `json:"shares,omitempty"`
	AuditFields
}

// LoanShare is the amount owed on a loan between its creator and one counterparty.
type LoanShare struct {
	ShareID        string          `json:"shareID"`
	LoanID         string          `json:"loanID"`
	CounterpartyID string          `json:"counterpartyID"`
	Counterparty   Party           `json:"counterparty"`
	Amount         decimal.Decimal `json:"amount"`
	IsSettled      bool            `json:"isSettled"`
	SettledAt      *time.Time      `json:"settledAt,omitempty"`
}

// LoanShareRecord is a loan share joined with its loan and both parties.
type LoanShareRecord struct {
	Share        LoanShare
	Loan         Loan
	Counterparty Party
	Creator      Party
}
