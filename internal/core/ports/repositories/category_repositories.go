package repositories

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	// CountCategoryUsage returns how many expenses and loans reference the category.
	CountCategoryUsage(ctx context.Context, categoryID string) (int64, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryRepositoryFacade combines all category repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
