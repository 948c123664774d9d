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
)

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for borrow/lend records.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const selectLoanFields = `
	l.loan_id, l.title, l.description, l.amount, l.category_id, l.direction,
	l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
`

func scanLoan(row pgx.Row) (domain.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.Title,
		&m.Description,
		&m.Amount,
		&m.CategoryID,
		&m.Direction,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Loan{}, err
	}
	return mapping.ToDomainLoan(m), nil
}

// SaveLoan inserts the loan and one share per counterparty within one DB transaction.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelLoan(loan)
	loanQuery := `
		INSERT INTO loans (loan_id, title, description, amount, category_id, direction,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, loanQuery,
		m.LoanID,
		m.Title,
		m.Description,
		m.Amount,
		m.CategoryID,
		m.Direction,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan %s: %w", m.LoanID, translatePgError(err, "loan"))
	}

	if len(loan.Shares) > 0 {
		batch := &pgx.Batch{}
		shareQuery := `
			INSERT INTO loan_shares (share_id, loan_id, counterparty_id, amount, is_settled, settled_at)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for _, s := range loan.Shares {
			ms := mapping.ToModelLoanShare(s)
			batch.Queue(shareQuery, ms.ShareID, ms.LoanID, ms.CounterpartyID, ms.Amount, ms.IsSettled, ms.SettledAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert shares for loan %s: %w", m.LoanID, translatePgError(err, "loan share"))
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + selectLoanFields + ` FROM loans l WHERE l.loan_id = $1;`
	loan, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}

	shares, err := r.findSharesByLoanIDs(ctx, []string{loanID})
	if err != nil {
		return nil, err
	}
	loan.Shares = shares[loanID]
	return &loan, nil
}

func (r *PgxLoanRepository) ListLoansForUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Loan, *string, error) {
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
		cursor = `AND (l.created_at, l.loan_id) < ($3, $4)`
	}

	query := `
		SELECT ` + selectLoanFields + `
		FROM loans l
		WHERE (l.created_by = $1
		       OR EXISTS (SELECT 1 FROM loan_shares s WHERE s.loan_id = l.loan_id AND s.counterparty_id = $1))
		` + cursor + `
		ORDER BY l.created_at DESC, l.loan_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query loans for user %s: %w", userID, err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating loan rows: %w", err)
	}

	var next *string
	if len(loans) > limit {
		loans = loans[:limit]
		last := loans[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.LoanID)
		next = &token
	}

	ids := make([]string, len(loans))
	for i, l := range loans {
		ids[i] = l.LoanID
	}
	shares, err := r.findSharesByLoanIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range loans {
		loans[i].Shares = shares[loans[i].LoanID]
	}

	return loans, next, nil
}

func (r *PgxLoanRepository) findSharesByLoanIDs(ctx context.Context, loanIDs []string) (map[string][]domain.LoanShare, error) {
	result := make(map[string][]domain.LoanShare, len(loanIDs))
	if len(loanIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT s.share_id, s.loan_id, s.counterparty_id, s.amount, s.is_settled, s.settled_at,
		       u.name, u.email
		FROM loan_shares s
		JOIN users u ON u.user_id = s.counterparty_id
		WHERE s.loan_id = ANY($1)
		ORDER BY s.loan_id, u.name, s.share_id;
	`
	rows, err := r.Pool.Query(ctx, query, loanIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.LoanShare
		var name, email string
		if err := rows.Scan(&m.ShareID, &m.LoanID, &m.CounterpartyID, &m.Amount, &m.IsSettled, &m.SettledAt, &name, &email); err != nil {
			return nil, fmt.Errorf("failed to scan loan share row: %w", err)
		}
		share := mapping.ToDomainLoanShare(m)
		share.Counterparty = domain.Party{UserID: m.CounterpartyID, Name: name, Email: email}
		result[m.LoanID] = append(result[m.LoanID], share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan share rows: %w", err)
	}
	return result, nil
}

// lockLoanForUpdate locks the loan and all of its shares until tx ends and returns the
// stored amount and direction.
func lockLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID string) (models.Loan, bool, error) {
	var stored models.Loan
	err := tx.QueryRow(ctx, `SELECT amount, direction FROM loans WHERE loan_id = $1 FOR UPDATE;`, loanID).
		Scan(&stored.Amount, &stored.Direction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Loan{}, false, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
		}
		return models.Loan{}, false, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}

	var anySettled bool
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(bool_or(locked.is_settled), FALSE)
		FROM (SELECT is_settled FROM loan_shares WHERE loan_id = $1 FOR UPDATE) AS locked;
	`, loanID).Scan(&anySettled)
	if err != nil {
		return models.Loan{}, false, fmt.Errorf("failed to lock shares of loan %s: %w", loanID, err)
	}
	return stored, anySettled, nil
}

// UpdateLoan updates the loan row and, when the amount changed, every unsettled share with it.
// Changing the amount or direction of a loan with a settled share fails with ErrConflict.
func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelLoan(loan)
	stored, anySettled, err := lockLoanForUpdate(ctx, tx, m.LoanID)
	if err != nil {
		return err
	}
	changed := !stored.Amount.Equal(m.Amount) || stored.Direction != m.Direction
	if err := checkFinalShares("loan", m.LoanID, changed, anySettled); err != nil {
		return err
	}

	query := `
		UPDATE loans
		SET title = $1, description = $2, amount = $3, category_id = $4, direction = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE loan_id = $8;
	`
	cmdTag, err := tx.Exec(ctx, query, m.Title, m.Description, m.Amount, m.CategoryID, m.Direction, m.LastUpdatedAt, m.LastUpdatedBy, m.LoanID)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", m.LoanID, translatePgError(err, "loan"))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("loan %s: %w", m.LoanID, apperrors.ErrNotFound)
	}

	_, err = tx.Exec(ctx, `UPDATE loan_shares SET amount = $1 WHERE loan_id = $2 AND NOT is_settled AND amount <> $1;`, m.Amount, m.LoanID)
	if err != nil {
		return fmt.Errorf("failed to update shares of loan %s: %w", m.LoanID, err)
	}

	return r.Commit(ctx, tx)
}
