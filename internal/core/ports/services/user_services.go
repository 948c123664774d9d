package services

import (
	"context"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// UpdateUser updates the profile of the user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// EnsureUserByEmail returns the user with the email, creating a placeholder if needed.
	EnsureUserByEmail(ctx context.Context, email, name string) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// ClaimOrCreateGoogleUser signs a Google account in. A placeholder user with the same
	// email is claimed; otherwise a new user is created.
	ClaimOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
