package dto

import (
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record an expense.
type CreateExpenseRequest struct {
	Title        string             `json:"title" binding:"required,max=200"`
	Description  string             `json:"description" binding:"max=2000"`
	Amount       decimal.Decimal    `json:"amount" binding:"required,decimal_gt0" swaggertype:"string" example:"90.00"`
	CategoryID   string             `json:"categoryID" binding:"required"`
	IsSplit      bool               `json:"isSplit"`
	Participants []ParticipantInput `json:"participants" binding:"omitempty,max=50,dive"`
}

// UpdateExpenseRequest defines the fields that may change on an expense.
// Pointers distinguish zero values from fields not provided.
type UpdateExpenseRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gt0" swaggertype:"string"`
	CategoryID  *string          `json:"categoryID" binding:"omitempty,min=1"`
}

// SetSharePaidRequest marks one expense share paid.
type SetSharePaidRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

// ExpenseShareResponse is one participant's part of an expense.
type ExpenseShareResponse struct {
	ShareID     string        `json:"shareID"`
	Participant PartyResponse `json:"participant"`
	ShareAmount string        `json:"shareAmount"`
	IsPaid      bool          `json:"isPaid"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID    string                 `json:"expenseID"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Amount       string                 `json:"amount"`
	CreatorShare string                 `json:"creatorShare"`
	CategoryID   string                 `json:"categoryID"`
	IsSplit      bool                   `json:"isSplit"`
	Shares       []ExpenseShareResponse `json:"shares"`
	CreatedAt    time.Time              `json:"createdAt"`
	CreatedBy    string                 `json:"createdBy"`
	LastUpdateAt time.Time              `json:"lastUpdatedAt"`
}

// ListExpensesResponse is one page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	shares := make([]ExpenseShareResponse, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = ExpenseShareResponse{
			ShareID:     s.ShareID,
			Participant: toPartyResponse(s.Participant),
			ShareAmount: formatAmount(s.ShareAmount),
			IsPaid:      s.IsPaid,
			PaidAt:      s.PaidAt,
		}
	}
	return ExpenseResponse{
		ExpenseID:    e.ExpenseID,
		Title:        e.Title,
		Description:  e.Description,
		Amount:       formatAmount(e.Amount),
		CreatorShare: formatAmount(e.CreatorShare()),
		CategoryID:   e.CategoryID,
		IsSplit:      e.IsSplit,
		Shares:       shares,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
		LastUpdateAt: e.LastUpdatedAt,
	}
}

// ToListExpensesResponse converts a page of expenses.
func ToListExpensesResponse(expenses []domain.Expense, nextToken *string) ListExpensesResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: res, NextToken: nextTokenOrNil(nextToken)}
}
