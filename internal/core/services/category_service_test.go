package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/core/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateDefaultsColor(t *testing.T) {
	repo := new(MockCategoryRepository)
	repo.On("SaveCategory", mock.Anything, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "Pets" && c.Color == domain.DefaultCategoryColor && !c.IsDefault
	})).Return(nil).Once()
	svc := services.NewCategoryService(repo)

	category, err := svc.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: " Pets "})

	require.NoError(t, err)
	assert.NotEmpty(t, category.CategoryID)
	repo.AssertExpectations(t)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	repo.On("FindCategoryByID", ctx, "cat-travel").Return(&domain.Category{CategoryID: "cat-travel"}, nil)
	repo.On("CountCategoryUsage", ctx, "cat-travel").Return(int64(3), nil).Once()
	svc := services.NewCategoryService(repo)

	err := svc.DeleteCategory(ctx, "cat-travel")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
}

func TestCategoryService_DeleteUnused(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	repo.On("FindCategoryByID", ctx, "cat-x").Return(&domain.Category{CategoryID: "cat-x"}, nil)
	repo.On("CountCategoryUsage", ctx, "cat-x").Return(int64(0), nil).Once()
	repo.On("DeleteCategory", ctx, "cat-x").Return(nil).Once()

	require.NoError(t, services.NewCategoryService(repo).DeleteCategory(ctx, "cat-x"))
	repo.AssertExpectations(t)
}

func TestCategoryService_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	repo.On("FindCategoryByID", ctx, "cat-none").Return(nil, apperrors.ErrNotFound)

	name := "New"
	_, err := services.NewCategoryService(repo).UpdateCategory(ctx, "cat-none", dto.UpdateCategoryRequest{Name: &name})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
