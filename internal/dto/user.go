package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// UpdateUserRequest defines the profile fields a user may change.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Nickname *string `json:"nickname" binding:"omitempty,max=100"`
}

// UserResponse defines the user data returned by the API.
type UserResponse struct {
	UserID        string     `json:"userID"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Nickname      string     `json:"nickname,omitempty"`
	ImageURL      string     `json:"imageURL,omitempty"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Name:          u.Name,
		Email:         u.Email,
		Nickname:      u.Nickname,
		ImageURL:      u.ImageURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
