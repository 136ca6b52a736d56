package domain

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount the way HyperPay expects it: two decimal
// places and a dot separator, independent of locale.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ParseAmount parses a decimal string such as "100.5" or "100".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, WrapError(ErrorCodeValidationAmountInvalid, "amount is not a decimal number", err)
	}
	return d, nil
}
