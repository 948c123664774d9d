package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxContactRepository struct {
	BaseRepository
}

func newPgxContactRepository(pool *pgxpool.Pool) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const selectContactJoined = `
	SELECT c.contact_id, c.saved_by_id, c.user_id, c.nickname, c.created_at,
	       u.user_id, u.name, u.email
	FROM contacts c
	JOIN users u ON u.user_id = c.user_id
`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	var nickname sql.NullString
	err := row.Scan(
		&c.ContactID,
		&c.SavedByID,
		&c.UserID,
		&nickname,
		&c.CreatedAt,
		&c.User.UserID,
		&c.User.Name,
		&c.User.Email,
	)
	if err != nil {
		return nil, err
	}
	c.Nickname = nickname.String
	return &c, nil
}

func (r *PgxContactRepository) ListContacts(ctx context.Context, savedByID string) ([]domain.Contact, error) {
	query := selectContactJoined + ` WHERE c.saved_by_id = $1 ORDER BY c.created_at DESC, c.contact_id;`
	rows, err := r.Pool.Query(ctx, query, savedByID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID string, savedByID string) (*domain.Contact, error) {
	query := selectContactJoined + ` WHERE c.contact_id = $1 AND c.saved_by_id = $2;`
	c, err := scanContact(r.Pool.QueryRow(ctx, query, contactID, savedByID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact %s: %w", contactID, err)
	}
	return c, nil
}

// UpsertContact keeps an existing nickname when the new one is empty.
func (r *PgxContactRepository) UpsertContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	query := `
		WITH upserted AS (
			INSERT INTO contacts (contact_id, saved_by_id, user_id, nickname, created_at)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5)
			ON CONFLICT (saved_by_id, user_id) DO UPDATE
				SET nickname = COALESCE(EXCLUDED.nickname, contacts.nickname)
			RETURNING contact_id, saved_by_id, user_id, nickname, created_at
		)
		SELECT c.contact_id, c.saved_by_id, c.user_id, c.nickname, c.created_at,
		       u.user_id, u.name, u.email
		FROM upserted c
		JOIN users u ON u.user_id = c.user_id;
	`
	saved, err := scanContact(r.Pool.QueryRow(ctx, query,
		contact.ContactID,
		contact.SavedByID,
		contact.UserID,
		contact.Nickname,
		contact.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert contact: %w", translatePgError(err, "contact"))
	}
	return saved, nil
}

func (r *PgxContactRepository) UpdateContactNickname(ctx context.Context, contactID string, savedByID string, nickname string) error {
	query := `UPDATE contacts SET nickname = NULLIF($1, '') WHERE contact_id = $2 AND saved_by_id = $3;`
	cmdTag, err := r.Pool.Exec(ctx, query, nickname, contactID, savedByID)
	if err != nil {
		return fmt.Errorf("failed to update contact nickname: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", contactID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxContactRepository) DeleteContact(ctx context.Context, contactID string, savedByID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM contacts WHERE contact_id = $1 AND saved_by_id = $2;`, contactID, savedByID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", contactID, apperrors.ErrNotFound)
	}
	return nil
}
