package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the data needed to record money borrowed from or lent to others.
type CreateLoanRequest struct {
	Title        string               `json:"title" binding:"required,max=200"`
	Description  string               `json:"description" binding:"max=2000"`
	Amount       decimal.Decimal      `json:"amount" binding:"required,decimal_gt0" swaggertype:"string" example:"50.00"`
	CategoryID   string               `json:"categoryID" binding:"required"`
	Direction    domain.LoanDirection `json:"direction" binding:"required,oneof=BORROW LEND"`
	Participants []ParticipantInput   `json:"participants" binding:"required,min=1,max=50,dive"`
}

// UpdateLoanRequest defines the fields that may change on a loan.
type UpdateLoanRequest struct {
	Title       *string               `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string               `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal      `json:"amount" binding:"omitempty,decimal_gt0" swaggertype:"string"`
	CategoryID  *string               `json:"categoryID" binding:"omitempty,min=1"`
	Direction   *domain.LoanDirection `json:"direction" binding:"omitempty,oneof=BORROW LEND"`
}

// LoanShareResponse is the amount owed between the loan creator and one counterparty.
type LoanShareResponse struct {
	ShareID      string        `json:"shareID"`
	Counterparty PartyResponse `json:"counterparty"`
	Amount       string        `json:"amount"`
	IsSettled    bool          `json:"isSettled"`
	SettledAt    *time.Time    `json:"settledAt,omitempty"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID       string               `json:"loanID"`
	Title        string               `json:"title"`
	Description  string               `json:"description,omitempty"`
	Amount       string               `json:"amount"`
	CategoryID   string               `json:"categoryID"`
	Direction    domain.LoanDirection `json:"direction"`
	Shares       []LoanShareResponse  `json:"shares"`
	CreatedAt    time.Time            `json:"createdAt"`
	CreatedBy    string               `json:"createdBy"`
	LastUpdateAt time.Time            `json:"lastUpdatedAt"`
}

// ListLoansResponse is one page of loans.
type ListLoansResponse struct {
	Loans     []LoanResponse `json:"loans"`
	NextToken *string        `json:"nextToken,omitempty"`
}

func ToLoanResponse(l *domain.Loan) LoanResponse {
	shares := make([]LoanShareResponse, len(l.Shares))
	for i, s := range l.Shares {
		shares[i] = LoanShareResponse{
			ShareID:      s.ShareID,
			Counterparty: toPartyResponse(s.Counterparty),
			Amount:       formatAmount(s.Amount),
			IsSettled:    s.IsSettled,
			SettledAt:    s.SettledAt,
		}
	}
	return LoanResponse{
		LoanID:       l.LoanID,
		Title:        l.Title,
		Description:  l.Description,
		Amount:       formatAmount(l.Amount),
		CategoryID:   l.CategoryID,
		Direction:    l.Direction,
		Shares:       shares,
		CreatedAt:    l.CreatedAt,
		CreatedBy:    l.CreatedBy,
		LastUpdateAt: l.LastUpdatedAt,
	}
}

func ToListLoansResponse(loans []domain.Loan, nextToken *string) ListLoansResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i])
	}
	return ListLoansResponse{Loans: res, NextToken: nextTokenOrNil(nextToken)}
}
