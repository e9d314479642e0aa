package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// ConvertRequest defines the payload for a currency conversion.
// Amount is a pointer so an explicit 0 survives the required check;
// negative amounts are rejected by the conversion service, not the binding.
type ConvertRequest struct {
	SourceCurrencyCode      string           `json:"sourceCurrencyCode" binding:"required,len=3,uppercase"`
	DestinationCurrencyCode string           `json:"destinationCurrencyCode" binding:"required,len=3,uppercase"`
	Amount                  *decimal.Decimal `json:"amount" binding:"required"`
}

// ConvertResponse defines the payload returned for a conversion.
type ConvertResponse struct {
	SourceCurrencyCode      string          `json:"sourceCurrencyCode"`
	DestinationCurrencyCode string          `json:"destinationCurrencyCode"`
	SourceAmount            decimal.Decimal `json:"sourceAmount"`
	DestinationAmount       decimal.Decimal `json:"destinationAmount"`
	ExchangeRate            decimal.Decimal `json:"exchangeRate"`
}

// ToConvertResponse converts a domain.ConversionResult to ConvertResponse DTO
func ToConvertResponse(result *domain.ConversionResult) ConvertResponse {
	return ConvertResponse{
		SourceCurrencyCode:      result.SourceCurrencyCode,
		DestinationCurrencyCode: result.DestinationCurrencyCode,
		SourceAmount:            result.SourceAmount,
		DestinationAmount:       result.DestinationAmount,
		ExchangeRate:            result.ExchangeRate,
	}
}
