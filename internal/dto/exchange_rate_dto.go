package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// CreateExchangeRateRequest defines the structure for creating a new base-relative exchange rate.
// ValidFrom defaults to now when omitted; ValidTo left nil means open-ended.
type CreateExchangeRateRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	RatePerBase  decimal.Decimal `json:"ratePerBase" binding:"required"`
	ValidFrom    *time.Time      `json:"validFrom,omitempty"`
	ValidTo      *time.Time      `json:"validTo,omitempty"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	CurrencyCode   string          `json:"currencyCode"`
	RatePerBase    decimal.Decimal `json:"ratePerBase"`
	ValidFrom      time.Time       `json:"validFrom"`
	ValidTo        *time.Time      `json:"validTo,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy  string          `json:"lastUpdatedBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		CurrencyCode:   rate.CurrencyCode,
		RatePerBase:    rate.RatePerBase,
		ValidFrom:      rate.ValidFrom,
		ValidTo:        rate.ValidTo,
		CreatedAt:      rate.CreatedAt,
		CreatedBy:      rate.CreatedBy,
		LastUpdatedAt:  rate.LastUpdatedAt,
		LastUpdatedBy:  rate.LastUpdatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// CrossRateResponse is the payload for a computed cross-rate quote.
type CrossRateResponse struct {
	SourceCurrencyCode      string          `json:"sourceCurrencyCode"`
	DestinationCurrencyCode string          `json:"destinationCurrencyCode"`
	ExchangeRate            decimal.Decimal `json:"exchangeRate"`
}
