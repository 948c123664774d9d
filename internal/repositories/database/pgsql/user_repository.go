package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_split_app/internal/models"
	"github.com/SscSPs/expense_split_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const selectUserFields = `
	user_id, name, email, nickname, image_url, auth_provider, provider_user_id,
	email_verified_at, created_at, created_by, last_updated_at, last_updated_by
`

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.Nickname,
		&m.ImageURL,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.EmailVerifiedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, name, email, nickname, image_url, auth_provider, provider_user_id,
			email_verified_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.Nickname,
		m.ImageURL,
		m.AuthProvider,
		m.ProviderUserID,
		m.EmailVerifiedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", translatePgError(err, "user"))
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE lower(email) = lower($1);`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $1, nickname = $2, image_url = $3, auth_provider = $4, provider_user_id = $5,
			email_verified_at = $6, last_updated_at = $7, last_updated_by = $8
		WHERE user_id = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.Nickname,
		m.ImageURL,
		m.AuthProvider,
		m.ProviderUserID,
		m.EmailVerifiedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", translatePgError(err, "user"))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

// EnsureUserByEmail relies on the unique email constraint: the no-op DO UPDATE makes
// RETURNING yield the existing row when another request inserted it first.
func (r *PgxUserRepository) EnsureUserByEmail(ctx context.Context, user domain.User) (*domain.User, error) {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, name, email, auth_provider, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING ` + selectUserFields + `;`
	saved, err := scanUser(r.Pool.QueryRow(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.AuthProvider,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %s: %w", m.Email, translatePgError(err, "user"))
	}
	return saved, nil
}
