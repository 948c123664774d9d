package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_split_app/internal/models"
	"github.com/SscSPs/expense_split_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAPITokenRepository struct {
	BaseRepository
}

// newPgxAPITokenRepository creates a new instance of PgxAPITokenRepository
func newPgxAPITokenRepository(db *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

const (
	selectAPITokenFields = `
		token_id, user_id, name, secret_hash, last_used_at, expires_at, created_at
	`

	insertAPITokenQuery = `
		INSERT INTO api_tokens (token_id, user_id, name, secret_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	findAPITokenByIDQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM api_tokens
		WHERE token_id = $1
	`

	findAPITokenByUserIDQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM api_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	touchAPITokenQuery = `UPDATE api_tokens SET last_used_at = $2 WHERE token_id = $1`

	deleteAPITokenQuery = `DELETE FROM api_tokens WHERE token_id = $1 AND user_id = $2`
)

// Create persists a new API token
func (r *PgxAPITokenRepository) Create(ctx context.Context, token domain.APIToken) error {
	m := mapping.ToModelAPIToken(token)
	_, err := r.Pool.Exec(ctx, insertAPITokenQuery, m.ID, m.UserID, m.Name, m.SecretHash, m.ExpiresAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create api token: %w", translatePgError(err, "api token"))
	}
	return nil
}

// FindByID retrieves an API token by its ID
func (r *PgxAPITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	token, err := scanAPIToken(r.Pool.QueryRow(ctx, findAPITokenByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api token: %w", err)
	}
	d := mapping.ToDomainAPIToken(*token)
	return &d, nil
}

// FindByUserID retrieves all API tokens for a specific user
func (r *PgxAPITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	rows, err := r.Pool.Query(ctx, findAPITokenByUserIDQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query api tokens: %w", err)
	}
	defer rows.Close()

	tokens := []domain.APIToken{}
	for rows.Next() {
		token, err := scanAPIToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api token: %w", err)
		}
		tokens = append(tokens, mapping.ToDomainAPIToken(*token))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// TouchLastUsed records that the token was just used
func (r *PgxAPITokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	if _, err := r.Pool.Exec(ctx, touchAPITokenQuery, id, at); err != nil {
		return fmt.Errorf("failed to update api token last use: %w", err)
	}
	return nil
}

// Delete removes an API token owned by userID
func (r *PgxAPITokenRepository) Delete(ctx context.Context, id string, userID string) error {
	result, err := r.Pool.Exec(ctx, deleteAPITokenQuery, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete api token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("api token %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// scanAPIToken scans an API token from a row
func scanAPIToken(row pgx.Row) (*models.APIToken, error) {
	var token models.APIToken
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Name,
		&token.SecretHash,
		&token.LastUsedAt,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
