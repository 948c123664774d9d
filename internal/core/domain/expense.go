package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a payment made by its creator, optionally split with other users.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryID"`
	IsSplit     bool            `json:"isSplit"`
	Shares      []ExpenseShare  `json:"shares,omitempty"`
	AuditFields
}

// ExpenseShare is the portion of an expense owed by one participant to the creator.
// The creator never has a share row of their own.
type ExpenseShare struct {
	ShareID       string          `json:"shareID"`
	ExpenseID     string          `json:"expenseID"`
	ParticipantID string          `json:"participantID"`
	Participant   Party           `json:"participant"`
	ShareAmount   decimal.Decimal `json:"shareAmount"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}

// CreatorShare returns the part of the expense the creator carries themselves.
func (e *Expense) CreatorShare() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Shares {
		total = total.Add(s.ShareAmount)
	}
	return e.Amount.Sub(total)
}

// ExpenseShareRecord is an expense share joined with its expense and both parties,
// as read by the balance engine.
type ExpenseShareRecord struct {
	Share       ExpenseShare
	Expense     Expense
	Participant Party
	Creator     Party
}
