package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.Name, &c.Color, &c.IsDefault, &c.CreatedAt)
	return c, err
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT category_id, name, color, is_default, created_at FROM categories WHERE category_id = $1;`
	c, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return &c, nil
}

// ListCategories returns default categories first, then the rest by name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT category_id, name, color, is_default, created_at
		FROM categories
		ORDER BY is_default DESC, name ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) CountCategoryUsage(ctx context.Context, categoryID string) (int64, error) {
	query := `
		SELECT (SELECT count(*) FROM expenses WHERE category_id = $1)
		     + (SELECT count(*) FROM loans WHERE category_id = $1);
	`
	var n int64
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count usage of category %s: %w", categoryID, err)
	}
	return n, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, name, color, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, category.CategoryID, category.Name, category.Color, category.IsDefault, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", translatePgError(err, "category"))
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `UPDATE categories SET name = $1, color = $2 WHERE category_id = $3;`
	cmdTag, err := r.Pool.Exec(ctx, query, category.Name, category.Color, category.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", translatePgError(err, "category"))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", category.CategoryID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		// a concurrent insert referencing the category trips the foreign key
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("category %s is in use: %w", categoryID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
	}
	return nil
}
