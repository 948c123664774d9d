package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxBalanceRepository reads the unsettled shares that feed the balance engine.
// Parties are LEFT JOINed so that a dangling user reference reaches the engine as an
// incomplete party instead of silently disappearing from the totals.
type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceReader {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceReader = (*PgxBalanceRepository)(nil)

func (r *PgxBalanceRepository) ListUnsettledExpenseShares(ctx context.Context, userID string) ([]domain.ExpenseShareRecord, error) {
	query := `
		SELECT s.share_id, s.expense_id, s.participant_id, s.share_amount, s.is_paid,
		       e.title, e.amount, e.created_at, e.created_by,
		       COALESCE(p.name, ''), COALESCE(p.email, ''),
		       COALESCE(c.name, ''), COALESCE(c.email, '')
		FROM expense_shares s
		JOIN expenses e ON e.expense_id = s.expense_id
		LEFT JOIN users p ON p.user_id = s.participant_id
		LEFT JOIN users c ON c.user_id = e.created_by
		WHERE NOT s.is_paid
		  AND (s.participant_id = $1 OR e.created_by = $1);
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled expense shares for %s: %w", userID, err)
	}
	defer rows.Close()

	records := []domain.ExpenseShareRecord{}
	for rows.Next() {
		var rec domain.ExpenseShareRecord
		err := rows.Scan(
			&rec.Share.ShareID,
			&rec.Share.ExpenseID,
			&rec.Share.ParticipantID,
			&rec.Share.ShareAmount,
			&rec.Share.IsPaid,
			&rec.Expense.Title,
			&rec.Expense.Amount,
			&rec.Expense.CreatedAt,
			&rec.Expense.CreatedBy,
			&rec.Participant.Name,
			&rec.Participant.Email,
			&rec.Creator.Name,
			&rec.Creator.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unsettled expense share: %w", err)
		}
		rec.Expense.ExpenseID = rec.Share.ExpenseID
		rec.Participant.UserID = rec.Share.ParticipantID
		rec.Creator.UserID = rec.Expense.CreatedBy
		rec.Share.Participant = rec.Participant
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unsettled expense shares: %w", err)
	}
	return records, nil
}

func (r *PgxBalanceRepository) ListUnsettledLoanShares(ctx context.Context, userID string) ([]domain.LoanShareRecord, error) {
	query := `
		SELECT s.share_id, s.loan_id, s.counterparty_id, s.amount, s.is_settled,
		       l.title, l.amount, l.direction, l.created_at, l.created_by,
		       COALESCE(p.name, ''), COALESCE(p.email, ''),
		       COALESCE(c.name, ''), COALESCE(c.email, '')
		FROM loan_shares s
		JOIN loans l ON l.loan_id = s.loan_id
		LEFT JOIN users p ON p.user_id = s.counterparty_id
		LEFT JOIN users c ON c.user_id = l.created_by
		WHERE NOT s.is_settled
		  AND (s.counterparty_id = $1 OR l.created_by = $1);
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled loan shares for %s: %w", userID, err)
	}
	defer rows.Close()

	records := []domain.LoanShareRecord{}
	for rows.Next() {
		var rec domain.LoanShareRecord
		var direction string
		err := rows.Scan(
			&rec.Share.ShareID,
			&rec.Share.LoanID,
			&rec.Share.CounterpartyID,
			&rec.Share.Amount,
			&rec.Share.IsSettled,
			&rec.Loan.Title,
			&rec.Loan.Amount,
			&direction,
			&rec.Loan.CreatedAt,
			&rec.Loan.CreatedBy,
			&rec.Counterparty.Name,
			&rec.Counterparty.Email,
			&rec.Creator.Name,
			&rec.Creator.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unsettled loan share: %w", err)
		}
		rec.Loan.LoanID = rec.Share.LoanID
		rec.Loan.Direction = domain.LoanDirection(direction)
		rec.Counterparty.UserID = rec.Share.CounterpartyID
		rec.Creator.UserID = rec.Loan.CreatedBy
		rec.Share.Counterparty = rec.Counterparty
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unsettled loan shares: %w", err)
	}
	return records, nil
}
