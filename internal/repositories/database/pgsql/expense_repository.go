package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_split_app/internal/models"
	"github.com/SscSPs/expense_split_app/internal/utils/mapping"
	"github.com/SscSPs/expense_split_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expenses and their shares.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const selectExpenseFields = `
	e.expense_id, e.title, e.description, e.amount, e.category_id, e.is_split,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
`

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.Title,
		&m.Description,
		&m.Amount,
		&m.CategoryID,
		&m.IsSplit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Expense{}, err
	}
	return mapping.ToDomainExpense(m), nil
}

// SaveExpense inserts the expense and its shares within one DB transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelExpense(expense)
	expenseQuery := `
		INSERT INTO expenses (expense_id, title, description, amount, category_id, is_split,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, expenseQuery,
		m.ExpenseID,
		m.Title,
		m.Description,
		m.Amount,
		m.CategoryID,
		m.IsSplit,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", m.ExpenseID, translatePgError(err, "expense"))
	}

	if len(expense.Shares) > 0 {
		batch := &pgx.Batch{}
		shareQuery := `
			INSERT INTO expense_shares (share_id, expense_id, participant_id, share_amount, is_paid, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for _, s := range expense.Shares {
			ms := mapping.ToModelExpenseShare(s)
			batch.Queue(shareQuery, ms.ShareID, ms.ExpenseID, ms.ParticipantID, ms.ShareAmount, ms.IsPaid, ms.PaidAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert shares for expense %s: %w", m.ExpenseID, translatePgError(err, "expense share"))
		}
	}

	return r.Commit(ctx, tx)
}

// FindExpenseByID retrieves an expense and its shares.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + selectExpenseFields + ` FROM expenses e WHERE e.expense_id = $1;`
	expense, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}

	shares, err := r.findSharesByExpenseIDs(ctx, []string{expenseID})
	if err != nil {
		return nil, err
	}
	expense.Shares = shares[expenseID]
	return &expense, nil
}

// ListExpensesForUser pages newest first on (created_at, expense_id).
func (r *PgxExpenseRepository) ListExpensesForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	args := []any{userID, limit + 1}
	cursor := ""
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid pagination token", apperrors.ErrValidation)
		}
		args = append(args, createdAt, id)
		cursor = `AND (e.created_at, e.expense_id) < ($3, $4)`
	}

	query := `
		SELECT ` + selectExpenseFields + `
		FROM expenses e
		WHERE (e.created_by = $1
		       OR EXISTS (SELECT 1 FROM expense_shares s WHERE s.expense_id = e.expense_id AND s.participant_id = $1))
		` + cursor + `
		ORDER BY e.created_at DESC, e.expense_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expenses for user %s: %w", userID, err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	var next *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
		next = &token
	}

	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ExpenseID
	}
	shares, err := r.findSharesByExpenseIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range expenses {
		expenses[i].Shares = shares[expenses[i].ExpenseID]
	}

	return expenses, next, nil
}

func (r *PgxExpenseRepository) findSharesByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]domain.ExpenseShare, error) {
	result := make(map[string][]domain.ExpenseShare, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT s.share_id, s.expense_id, s.participant_id, s.share_amount, s.is_paid, s.paid_at,
		       u.name, u.email
		FROM expense_shares s
		JOIN users u ON u.user_id = s.participant_id
		WHERE s.expense_id = ANY($1)
		ORDER BY s.expense_id, u.name, s.share_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ExpenseShare
		var name, email string
		if err := rows.Scan(&m.ShareID, &m.ExpenseID, &m.ParticipantID, &m.ShareAmount, &m.IsPaid, &m.PaidAt, &name, &email); err != nil {
			return nil, fmt.Errorf("failed to scan expense share row: %w", err)
		}
		share := mapping.ToDomainExpenseShare(m)
		share.Participant = domain.Party{UserID: m.ParticipantID, Name: name, Email: email}
		result[m.ExpenseID] = append(result[m.ExpenseID], share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense share rows: %w", err)
	}
	return result, nil
}

// lockExpenseForUpdate locks the expense and all of its shares until tx ends. Settling a
// share locks the same share rows, so no share can turn paid between this check and the
// share updates that follow it.
func lockExpenseForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (decimal.Decimal, bool, error) {
	var amount decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT amount FROM expenses WHERE expense_id = $1 FOR UPDATE;`, expenseID).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
		}
		return decimal.Zero, false, fmt.Errorf("failed to lock expense %s: %w", expenseID, err)
	}

	var anyPaid bool
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(bool_or(locked.is_paid), FALSE)
		FROM (SELECT is_paid FROM expense_shares WHERE expense_id = $1 FOR UPDATE) AS locked;
	`, expenseID).Scan(&anyPaid)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to lock shares of expense %s: %w", expenseID, err)
	}
	return amount, anyPaid, nil
}

// UpdateExpense updates the expense row and the amounts of the given shares together.
// Changing the amount of an expense with a paid share fails with ErrConflict.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelExpense(expense)
	storedAmount, anyPaid, err := lockExpenseForUpdate(ctx, tx, m.ExpenseID)
	if err != nil {
		return err
	}
	if err := checkFinalShares("expense", m.ExpenseID, !storedAmount.Equal(m.Amount), anyPaid); err != nil {
		return err
	}

	query := `
		UPDATE expenses
		SET title = $1, description = $2, amount = $3, category_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE expense_id = $7;
	`
	cmdTag, err := tx.Exec(ctx, query, m.Title, m.Description, m.Amount, m.CategoryID, m.LastUpdatedAt, m.LastUpdatedBy, m.ExpenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", m.ExpenseID, translatePgError(err, "expense"))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", m.ExpenseID, apperrors.ErrNotFound)
	}

	if len(expense.Shares) > 0 {
		batch := &pgx.Batch{}
		for _, s := range expense.Shares {
			batch.Queue(`UPDATE expense_shares SET share_amount = $1 WHERE share_id = $2 AND expense_id = $3 AND NOT is_paid;`,
				s.ShareAmount, s.ShareID, m.ExpenseID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to update shares of expense %s: %w", m.ExpenseID, translatePgError(err, "expense share"))
		}
	}

	return r.Commit(ctx, tx)
}
