package balances

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places shares are rounded to.
const MoneyPlaces int32 = 2

// SplitEqually divides amount between the creator and n participants.
//
// Every party gets amount/(n+1) truncated to MoneyPlaces. The leftover minor units are
// handed out one each, creator first and then participants in order, and any sub-unit
// rest stays with the creator, so creatorShare plus all participant shares equals amount
// exactly. An amount smaller than one minor unit per party is rejected.
func SplitEqually(amount decimal.Decimal, participants int) (shares []decimal.Decimal, creatorShare decimal.Decimal, err error) {
	if participants < 0 {
		return nil, decimal.Zero, fmt.Errorf("participant count must not be negative, got %d", participants)
	}
	if !amount.IsPositive() {
		return nil, decimal.Zero, fmt.Errorf("amount must be positive, got %s", amount.String())
	}

	unit := decimal.New(1, -MoneyPlaces)
	parties := decimal.NewFromInt(int64(participants + 1))
	if amount.LessThan(unit.Mul(parties)) {
		return nil, decimal.Zero, fmt.Errorf("amount %s is too small to split between %d people", amount.String(), participants+1)
	}

	each := amount.Div(parties).Truncate(MoneyPlaces)
	extra := amount.Sub(each.Mul(parties)).Div(unit).IntPart()

	shares = make([]decimal.Decimal, participants)
	allocated := decimal.Zero
	for i := range shares {
		shares[i] = each
		// unit 0 goes to the creator
		if int64(i)+1 < extra {
			shares[i] = each.Add(unit)
		}
		allocated = allocated.Add(shares[i])
	}
	return shares, amount.Sub(allocated), nil
}
