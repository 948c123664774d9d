package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,hexcolor"` // defaults to domain.DefaultCategoryColor
}

// UpdateCategoryRequest defines the fields that may change on a category.
type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,hexcolor"`
}

type CategoryResponse struct {
	CategoryID string    `json:"categoryID"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Color:      c.Color,
		IsDefault:  c.IsDefault,
		CreatedAt:  c.CreatedAt,
	}
}

func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
