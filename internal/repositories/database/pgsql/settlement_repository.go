package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSettlementRepository applies settle and delete mutations one record at a time inside
// a transaction owned by the caller. Rows are locked with FOR UPDATE before they are
// inspected so that two concurrent bulk requests cannot both apply the same record.
type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryWithTx {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettlementRepositoryWithTx = (*PgxSettlementRepository)(nil)

const (
	lockExpenseShareQuery = `
		SELECT s.is_paid, s.participant_id, e.created_by
		FROM expense_shares s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE s.share_id = $1
		FOR UPDATE OF s;
	`
	settleExpenseShareQuery = `UPDATE expense_shares SET is_paid = TRUE, paid_at = $2 WHERE share_id = $1;`

	lockLoanShareQuery = `
		SELECT s.is_settled, s.counterparty_id, l.created_by
		FROM loan_shares s
		JOIN loans l ON l.loan_id = s.loan_id
		WHERE s.share_id = $1
		FOR UPDATE OF s;
	`
	settleLoanShareQuery = `UPDATE loan_shares SET is_settled = TRUE, settled_at = $2 WHERE share_id = $1;`
)

func (r *PgxSettlementRepository) SettleShareTx(ctx context.Context, tx pgx.Tx, userID string, ref domain.ShareRef, at time.Time) (domain.BulkItemResult, error) {
	result := domain.BulkItemResult{Kind: ref.Kind, ID: ref.ShareID}

	var lockQuery, updateQuery string
	switch ref.Kind {
	case domain.SourceExpense:
		lockQuery, updateQuery = lockExpenseShareQuery, settleExpenseShareQuery
	case domain.SourceLoan:
		lockQuery, updateQuery = lockLoanShareQuery, settleLoanShareQuery
	default:
		return result, fmt.Errorf("unknown share kind %q: %w", ref.Kind, apperrors.ErrValidation)
	}

	var done bool
	var participantID, creatorID string
	err := tx.QueryRow(ctx, lockQuery, ref.ShareID).Scan(&done, &participantID, &creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			result.Outcome = domain.OutcomeNotFound
			return result, nil
		}
		return result, fmt.Errorf("failed to lock %s share %s: %w", ref.Kind, ref.ShareID, err)
	}

	switch {
	case userID != participantID && userID != creatorID:
		result.Outcome = domain.OutcomeForbidden
		return result, nil
	case done:
		result.Outcome = domain.OutcomeAlreadyDone
		return result, nil
	}

	if _, err := tx.Exec(ctx, updateQuery, ref.ShareID, at); err != nil {
		return result, fmt.Errorf("failed to settle %s share %s: %w", ref.Kind, ref.ShareID, err)
	}
	result.Outcome = domain.OutcomeApplied
	result.AffectedUsers = []string{participantID, creatorID}
	return result, nil
}

func (r *PgxSettlementRepository) DeleteSourceTx(ctx context.Context, tx pgx.Tx, userID string, ref domain.SourceRef) (domain.BulkItemResult, error) {
	result := domain.BulkItemResult{Kind: ref.Kind, ID: ref.SourceID}

	var lockQuery, partiesQuery, deleteQuery string
	switch ref.Kind {
	case domain.SourceExpense:
		lockQuery = `SELECT created_by FROM expenses WHERE expense_id = $1 FOR UPDATE;`
		partiesQuery = `SELECT participant_id FROM expense_shares WHERE expense_id = $1 AND NOT is_paid;`
		deleteQuery = `DELETE FROM expenses WHERE expense_id = $1;`
	case domain.SourceLoan:
		lockQuery = `SELECT created_by FROM loans WHERE loan_id = $1 FOR UPDATE;`
		partiesQuery = `SELECT counterparty_id FROM loan_shares WHERE loan_id = $1 AND NOT is_settled;`
		deleteQuery = `DELETE FROM loans WHERE loan_id = $1;`
	default:
		return result, fmt.Errorf("unknown source kind %q: %w", ref.Kind, apperrors.ErrValidation)
	}

	var creatorID string
	if err := tx.QueryRow(ctx, lockQuery, ref.SourceID).Scan(&creatorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			result.Outcome = domain.OutcomeNotFound
			return result, nil
		}
		return result, fmt.Errorf("failed to lock %s %s: %w", ref.Kind, ref.SourceID, err)
	}
	if creatorID != userID {
		result.Outcome = domain.OutcomeForbidden
		return result, nil
	}

	rows, err := tx.Query(ctx, partiesQuery, ref.SourceID)
	if err != nil {
		return result, fmt.Errorf("failed to read parties of %s %s: %w", ref.Kind, ref.SourceID, err)
	}
	affected, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return result, fmt.Errorf("failed to read parties of %s %s: %w", ref.Kind, ref.SourceID, err)
	}

	// shares go with the source through ON DELETE CASCADE
	if _, err := tx.Exec(ctx, deleteQuery, ref.SourceID); err != nil {
		return result, fmt.Errorf("failed to delete %s %s: %w", ref.Kind, ref.SourceID, err)
	}

	result.Outcome = domain.OutcomeApplied
	result.AffectedUsers = append(affected, creatorID)
	return result, nil
}
