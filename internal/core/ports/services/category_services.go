package services

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/dto"
)

// CategorySvcFacade manages expense and loan categories.
type CategorySvcFacade interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*domain.Category, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	// DeleteCategory fails with apperrors.ErrConflict while any expense or loan uses the category.
	DeleteCategory(ctx context.Context, categoryID string) error
}
