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
	"github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/utils"
	"github.com/google/uuid"
)

// APITokenPrefix starts every personal API token: esa_<token id>_<secret>.
const APITokenPrefix = "esa_"

// apiTokenService implements the APITokenSvc interface
type apiTokenService struct {
	BaseService
	tokenRepo repositories.APITokenRepository
	userSvc   portssvc.UserReaderSvc
}

// NewAPITokenService creates a new instance of apiTokenService
func NewAPITokenService(tokenRepo repositories.APITokenRepository, userSvc portssvc.UserReaderSvc) portssvc.APITokenSvc {
	return &apiTokenService{
		tokenRepo: tokenRepo,
		userSvc:   userSvc,
	}
}

// CreateToken generates a new API token for the user
func (s *apiTokenService) CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error) {
	if userID == "" {
		return "", nil, fmt.Errorf("user ID is required: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("token name is required: %w", apperrors.ErrValidation)
	}

	secret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	secretHash, err := utils.HashSecret(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash token: %w", err)
	}

	now := time.Now()
	var expiresAt *time.Time
	if expiresIn != nil {
		expiry := now.Add(*expiresIn)
		expiresAt = &expiry
	}

	apiToken := domain.APIToken{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		SecretHash: secretHash,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
	}
	if err := s.tokenRepo.Create(ctx, apiToken); err != nil {
		s.LogError(ctx, err, "Failed to save API token", slog.String("user_id", userID))
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.LogInfo(ctx, "API token created", slog.String("user_id", userID), slog.String("token_id", apiToken.ID))
	return APITokenPrefix + apiToken.ID + "_" + secret, &apiToken, nil
}

// ListTokens returns all API tokens for a user
func (s *apiTokenService) ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error) {
	tokens, err := s.tokenRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// RevokeToken deletes a specific API token for a user
func (s *apiTokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	if err := s.tokenRepo.Delete(ctx, tokenID, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to revoke API token", slog.String("token_id", tokenID))
		}
		return err
	}
	s.LogInfo(ctx, "API token revoked", slog.String("user_id", userID), slog.String("token_id", tokenID))
	return nil
}

// ValidateToken checks if a token is valid and returns the associated user
func (s *apiTokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	tokenID, secret, ok := splitAPIToken(tokenString)
	if !ok {
		return nil, fmt.Errorf("malformed API token: %w", apperrors.ErrUnauthorized)
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("unknown API token: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !utils.CheckSecretHash(secret, token.SecretHash) {
		return nil, fmt.Errorf("API token secret mismatch: %w", apperrors.ErrUnauthorized)
	}
	now := time.Now()
	if token.IsExpired(now) {
		return nil, fmt.Errorf("API token expired: %w", apperrors.ErrUnauthorized)
	}

	if err := s.tokenRepo.TouchLastUsed(ctx, token.ID, now); err != nil {
		// usage tracking must not block the request
		s.LogError(ctx, err, "Failed to record API token usage", slog.String("token_id", token.ID))
	}

	user, err := s.userSvc.GetUserByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// splitAPIToken parses esa_<id>_<secret>. Token ids are UUIDs, which never contain '_'.
func splitAPIToken(raw string) (id, secret string, ok bool) {
	rest, found := strings.CutPrefix(raw, APITokenPrefix)
	if !found {
		return "", "", false
	}
	id, secret, found = strings.Cut(rest, "_")
	if !found || id == "" || secret == "" {
		return "", "", false
	}
	return id, secret, true
}
