package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the persisted form of a loans row.
type Loan struct {
	LoanID      string          `db:"loan_id"`
	Title       string          `db:"title"`
	Description sql.NullString  `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	CategoryID  string          `db:"category_id"`
	Direction   string          `db:"direction"` // BORROW or LEND
	AuditFields
}

// LoanShare is the persisted form of a loan_shares row.
type LoanShare struct {
	ShareID        string          `db:"share_id"`
	LoanID         string          `db:"loan_id"`
	CounterpartyID string          `db:"counterparty_id"`
	Amount         decimal.Decimal `db:"amount"`
	IsSettled      bool            `db:"is_settled"`
	SettledAt      *time.Time      `db:"settled_at"`
}
