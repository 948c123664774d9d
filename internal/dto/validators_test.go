package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))
	return v
}

func TestDecimalValidators(t *testing.T) {
	v := newValidator(t)

	type amounts struct {
		Positive decimal.Decimal  `validate:"required,decimal_gt0"`
		NonNeg   decimal.Decimal  `validate:"decimal_gte0"`
		Optional *decimal.Decimal `validate:"omitempty,decimal_gt0"`
	}

	ok := amounts{Positive: decimal.RequireFromString("0.01"), NonNeg: decimal.RequireFromString("0.00")}
	assert.NoError(t, v.Struct(ok))

	assert.Error(t, v.Struct(amounts{NonNeg: decimal.NewFromInt(1)}), "missing required amount")
	assert.Error(t, v.Struct(amounts{Positive: decimal.NewFromInt(-5), NonNeg: decimal.NewFromInt(1)}))
	assert.Error(t, v.Struct(amounts{Positive: decimal.NewFromInt(5), NonNeg: decimal.NewFromInt(-1)}))

	neg := decimal.NewFromInt(-1)
	assert.Error(t, v.Struct(amounts{Positive: decimal.NewFromInt(5), NonNeg: decimal.NewFromInt(1), Optional: &neg}))
}

func TestCreateExpenseRequestValidation(t *testing.T) {
	v := newValidator(t)
	v.SetTagName("binding")

	req := CreateExpenseRequest{
		Title:      "Dinner",
		Amount:     decimal.RequireFromString("90.00"),
		CategoryID: "cat-food-dining",
		IsSplit:    true,
		Participants: []ParticipantInput{
			{Email: "alice@example.com"},
			{Email: "bob@example.com", Nickname: "Bobby"},
		},
	}
	assert.NoError(t, v.Struct(req))

	req.Participants = append(req.Participants, ParticipantInput{Email: "not-an-email"})
	assert.Error(t, v.Struct(req))
}

func TestSettleRequestValidation(t *testing.T) {
	v := newValidator(t)
	v.SetTagName("binding")

	assert.Error(t, v.Struct(SettleSharesRequest{}), "items are required")
	assert.Error(t, v.Struct(SettleSharesRequest{Items: []ShareRefInput{{Kind: "INVOICE", ShareID: "s1"}}}))
	assert.NoError(t, v.Struct(SettleSharesRequest{Items: []ShareRefInput{{Kind: "EXPENSE", ShareID: "s1"}, {Kind: "LOAN", ShareID: "s2"}}}))
}
