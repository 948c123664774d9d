package dto

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators teaches v about decimal amounts. Decimal fields are validated as their
// string form, so "required" rejects a missing amount and the tags below compare numerically.
//
//	decimal_gt0   amount > 0
//	decimal_gte0  amount >= 0
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			if d.IsZero() && d.Exponent() == 0 {
				// zero value of decimal.Decimal; treat as absent
				return ""
			}
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimal_gt0", decimalCompare(func(d decimal.Decimal) bool { return d.IsPositive() })); err != nil {
		return err
	}
	return v.RegisterValidation("decimal_gte0", decimalCompare(func(d decimal.Decimal) bool { return !d.IsNegative() }))
}

func decimalCompare(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		raw, isString := fl.Field().Interface().(string)
		if !isString {
			return false
		}
		d := decimal.Zero
		if raw != "" {
			var err error
			if d, err = decimal.NewFromString(raw); err != nil {
				return false
			}
		}
		return ok(d)
	}
}
