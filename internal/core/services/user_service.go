package services

import (
	"context"
	"errors"
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

// SystemUserID is recorded as creator of users nobody created explicitly.
const SystemUserID = "SYSTEM"

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// normalizeEmail is applied before every email lookup or insert.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nameFromEmail gives placeholder users a display name until they sign in.
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != nil && strings.TrimSpace(*req.Name) != user.Name {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be blank: %w", apperrors.ErrValidation)
		}
		user.Name = name
		changed = true
	}
	if req.Nickname != nil && *req.Nickname != user.Nickname {
		user.Nickname = strings.TrimSpace(*req.Nickname)
		changed = true
	}
	if !changed {
		return user, nil
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

func (s *userService) EnsureUserByEmail(ctx context.Context, email, name string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		name = nameFromEmail(email)
	}

	now := time.Now()
	placeholder := domain.User{
		UserID:       uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		AuthProvider: domain.ProviderNone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     SystemUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: SystemUserID,
		},
	}
	user, err := s.userRepo.EnsureUserByEmail(ctx, placeholder)
	if err != nil {
		s.LogError(ctx, err, "Failed to ensure user by email")
		return nil, fmt.Errorf("failed to resolve user by email: %w", err)
	}
	if user.UserID == placeholder.UserID {
		s.LogInfo(ctx, "Placeholder user created", slog.String("user_id", user.UserID))
	}
	return user, nil
}

func (s *userService) ClaimOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	email := normalizeEmail(info.Email)
	if email == "" || info.ID == "" {
		return nil, fmt.Errorf("google profile lacks email or subject: %w", apperrors.ErrValidation)
	}
	if !info.VerifiedEmail {
		return nil, fmt.Errorf("google email %q is not verified: %w", email, apperrors.ErrUnauthorized)
	}

	now := time.Now()
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		newUser := domain.User{
			UserID:         uuid.NewString(),
			Name:           info.Name,
			Email:          email,
			ImageURL:       info.Picture,
			AuthProvider:   domain.ProviderGoogle,
			ProviderUserID: info.ID,
			EmailVerified:  &now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     SystemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: SystemUserID,
			},
		}
		if newUser.Name == "" {
			newUser.Name = nameFromEmail(email)
		}
		if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// lost a race with a concurrent sign-in or placeholder insert
				existing, findErr := s.userRepo.FindUserByEmail(ctx, email)
				if findErr != nil {
					return nil, fmt.Errorf("failed to create user: %w", err)
				}
				return s.claimGoogleUser(ctx, existing, info, now)
			}
			s.LogError(ctx, err, "Failed to create Google user")
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.LogInfo(ctx, "User created from Google sign-in", slog.String("user_id", newUser.UserID))
		return &newUser, nil
	case err != nil:
		s.LogError(ctx, err, "Failed to look up user for Google sign-in")
		return nil, err
	}
	return s.claimGoogleUser(ctx, user, info, now)
}

// claimGoogleUser links an existing user to the Google account, turning a placeholder into
// a signed-in user.
func (s *userService) claimGoogleUser(ctx context.Context, user *domain.User, info domain.GoogleUserInfo, now time.Time) (*domain.User, error) {
	if user.HasSignedIn() && user.ProviderUserID != "" && user.ProviderUserID != info.ID {
		s.LogWarn(ctx, "Google subject mismatch for existing user", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("email is linked to a different Google account: %w", apperrors.ErrConflict)
	}

	claimed := !user.HasSignedIn()
	user.AuthProvider = domain.ProviderGoogle
	user.ProviderUserID = info.ID
	if claimed && info.Name != "" {
		user.Name = info.Name
	}
	if info.Picture != "" {
		user.ImageURL = info.Picture
	}
	if user.EmailVerified == nil {
		user.EmailVerified = &now
	}
	user.LastUpdatedAt = now
	user.LastUpdatedBy = user.UserID
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user on Google sign-in", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if claimed {
		s.LogInfo(ctx, "Placeholder user claimed", slog.String("user_id", user.UserID))
	}
	return user, nil
}
