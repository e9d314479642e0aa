package services

import (
	"context"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	"github.com/sterlingfx/currency_converter_app/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for base-relative exchange rate data
type ExchangeRateReaderSvc interface {
	// GetCurrentRate retrieves the currently valid rate for a currency.
	GetCurrentRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error)

	// ListCurrentRates retrieves the currently valid rate for every currency that has one.
	ListCurrentRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new base-relative exchange rate.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creator string) (*domain.ExchangeRate, error)

	// ImportRates persists a batch of rates, typically from fixtures.
	ImportRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
