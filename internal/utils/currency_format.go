package utils

import (
	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// RoundToPrecision rounds an amount to the given number of fraction digits,
// half away from zero. decimal.Round implements exactly that policy, so
// 2.345 at precision 2 becomes 2.35 and -2.345 becomes -2.35.
func RoundToPrecision(amount decimal.Decimal, precision int) decimal.Decimal {
	return amount.Round(int32(precision))
}

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD (precision 2) returns "12.35"
// Example: amount 12.3456 with JPY (precision 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return RoundToPrecision(amount, currency.Precision).StringFixed(int32(currency.Precision))
}
