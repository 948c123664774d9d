package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction. Rolling back a committed transaction is a no-op.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// translatePgError maps constraint violations onto application errors so services can
// react to them with errors.Is. Other errors are returned unchanged.
func translatePgError(err error, what string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, apperrors.ErrDuplicate)
	case pgForeignKeyViolation:
		return fmt.Errorf("%s references a missing record (%s): %w", what, pgErr.ConstraintName, apperrors.ErrValidation)
	case pgCheckViolation:
		return fmt.Errorf("%s violates %s: %w", what, pgErr.ConstraintName, apperrors.ErrValidation)
	}
	return err
}

// checkFinalShares rejects a change to the amount (or direction) of a record once any of
// its shares is paid or settled.
func checkFinalShares(what, id string, changed, anyFinal bool) error {
	if changed && anyFinal {
		return fmt.Errorf("%s %s has settled shares, amount is locked: %w", what, id, apperrors.ErrConflict)
	}
	return nil
}
