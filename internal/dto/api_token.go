package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
)

// CreateAPITokenRequest represents the request to create a new API token
type CreateAPITokenRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	ExpiresIn *int64 `json:"expiresIn,omitempty" binding:"omitempty,min=60"` // seconds
}

// APITokenResponse represents an API token in the response
type APITokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateAPITokenResponse carries the plaintext token, shown only once.
type CreateAPITokenResponse struct {
	Token    string           `json:"token"`
	APIToken APITokenResponse `json:"apiToken"`
}

// ExpiresInDuration returns the requested lifetime, or nil for a token that never expires.
func (r CreateAPITokenRequest) ExpiresInDuration() *time.Duration {
	if r.ExpiresIn == nil {
		return nil
	}
	d := time.Duration(*r.ExpiresIn) * time.Second
	return &d
}

func ToAPITokenResponse(t *domain.APIToken) APITokenResponse {
	return APITokenResponse{
		ID:         t.ID,
		Name:       t.Name,
		LastUsedAt: t.LastUsedAt,
		ExpiresAt:  t.ExpiresAt,
		CreatedAt:  t.CreatedAt,
	}
}

func ToListAPITokenResponse(tokens []domain.APIToken) []APITokenResponse {
	res := make([]APITokenResponse, len(tokens))
	for i := range tokens {
		res[i] = ToAPITokenResponse(&tokens[i])
	}
	return res
}
