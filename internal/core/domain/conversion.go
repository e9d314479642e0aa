package domain

import "github.com/shopspring/decimal"

// RatePrecision is the number of decimal places a cross-rate is rounded to
// before it is applied to an amount. Rounding first keeps the reported rate
// and the rate actually used for the multiplication identical.
const RatePrecision = 7

// ConversionResult is the outcome of converting an amount between two
// currencies. It is computed on demand and never persisted.
type ConversionResult struct {
	SourceCurrencyCode      string          `json:"sourceCurrencyCode"`
	DestinationCurrencyCode string          `json:"destinationCurrencyCode"`
	SourceAmount            decimal.Decimal `json:"sourceAmount"`
	DestinationAmount       decimal.Decimal `json:"destinationAmount"` // Rounded to the destination currency's precision
	ExchangeRate            decimal.Decimal `json:"exchangeRate"`      // Rounded to RatePrecision decimal places
}
