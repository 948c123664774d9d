package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_split_app/internal/apperrors"
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.categoryRepo.FindCategoryByID(ctx, categoryID)
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", apperrors.ErrValidation)
	}
	color := req.Color
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	category := domain.Category{
		CategoryID: uuid.NewString(),
		Name:       name,
		Color:      color,
		CreatedAt:  time.Now(),
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("category name must not be blank: %w", apperrors.ErrValidation)
		}
		category.Name = name
	}
	if req.Color != nil {
		category.Color = *req.Color
		if category.Color == "" {
			category.Color = domain.DefaultCategoryColor
		}
	}

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return err
	}
	used, err := s.categoryRepo.CountCategoryUsage(ctx, categoryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count category usage", slog.String("category_id", categoryID))
		return err
	}
	if used > 0 {
		return fmt.Errorf("category is used by %d records: %w", used, apperrors.ErrConflict)
	}
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}
