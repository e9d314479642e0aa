package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// ConversionSvcFacade computes cross-rates and currency conversions.
type ConversionSvcFacade interface {
	// GetRate returns the exchange rate from source to destination, rounded
	// to the fixed rate precision. The rate for identical codes is exactly 1.
	GetRate(ctx context.Context, sourceCode, destinationCode string) (decimal.Decimal, error)

	// Convert applies the rounded cross-rate to an amount and rounds the
	// result to the destination currency's precision.
	Convert(ctx context.Context, sourceCode, destinationCode string, amount decimal.Decimal) (*domain.ConversionResult, error)
}
