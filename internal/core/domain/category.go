package domain

import "time"

// DefaultCategoryColor is used when a category is saved without a color.
const DefaultCategoryColor = "#3B82F6"

// Category labels expenses and loans.
type Category struct {
	CategoryID string    `json:"categoryID"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
