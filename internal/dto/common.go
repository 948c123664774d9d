package dto

import (
	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/SscSPs/expense_split_app/internal/utils"
)

// ListParams defines query parameters for the cursor-paginated list endpoints.
type ListParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// PartyResponse is a user identity as shown next to an amount.
type PartyResponse struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ParticipantInput names a participant of an expense or loan by email.
// Unknown emails become placeholder users that are claimed on first sign-in.
type ParticipantInput struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname" binding:"max=100"`
}

func toPartyResponse(p domain.Party) PartyResponse {
	return PartyResponse{UserID: p.UserID, Name: p.Name, Email: p.Email}
}

// nextTokenOrNil keeps an empty next token out of the JSON.
func nextTokenOrNil(token *string) *string {
	if token == nil || *token == "" {
		return nil
	}
	return token
}

var formatAmount = utils.FormatAmount
