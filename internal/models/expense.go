package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persisted form of an expense row.
type Expense struct {
	ExpenseID   string          `db:"expense_id"`
	Title       string          `db:"title"`
	Description sql.NullString  `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	CategoryID  string          `db:"category_id"`
	IsSplit     bool            `db:"is_split"`
	AuditFields
}

// ExpenseShare is the persisted form of an expense_shares row.
type ExpenseShare struct {
	ShareID       string          `db:"share_id"`
	ExpenseID     string          `db:"expense_id"`
	ParticipantID string          `db:"participant_id"`
	ShareAmount   decimal.Decimal `db:"share_amount"`
	IsPaid        bool            `db:"is_paid"`
	PaidAt        *time.Time      `db:"paid_at"`
}
