package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/dto"
)

// exchangeRateService implements the ExchangeRateSvcFacade interface.
// Rates are stored relative to the base currency only; the base itself never
// gets a stored rate.
type exchangeRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencySvc  portssvc.CurrencyReaderSvc
	baseCurrency string
}

// NewExchangeRateService creates a new instance of exchangeRateService
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencyReaderSvc, baseCurrency string) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:     rateRepo,
		currencySvc:  currencySvc,
		baseCurrency: strings.ToUpper(strings.TrimSpace(baseCurrency)),
	}
}

// CreateExchangeRate handles the creation of a new base-relative exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creator string) (*domain.ExchangeRate, error) {
	// Code shape validation is handled by DTO binding tags.
	if req.RatePerBase.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.CurrencyCode == s.baseCurrency {
		return nil, fmt.Errorf("%w: the base currency %s has an implicit rate of 1 and cannot be stored", apperrors.ErrValidation, s.baseCurrency)
	}

	// The currency must exist so conversions can resolve its precision later.
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", req.CurrencyCode, err)
	}

	now := time.Now()
	validFrom := now
	if req.ValidFrom != nil {
		validFrom = *req.ValidFrom
	}
	if req.ValidTo != nil && !req.ValidTo.After(validFrom) {
		return nil, fmt.Errorf("%w: validTo must be after validFrom", apperrors.ErrValidation)
	}

	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		CurrencyCode:   req.CurrencyCode,
		RatePerBase:    req.RatePerBase,
		ValidFrom:      validFrom,
		ValidTo:        req.ValidTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "failed to create exchange rate", "currency_code", rate.CurrencyCode)
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	return &rate, nil
}

// GetCurrentRate retrieves the currently valid rate for a currency.
func (s *exchangeRateService) GetCurrentRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindCurrentRate(ctx, currencyCode, time.Now())
	if err != nil {
		// Repository maps missing rows to apperrors.ErrNotFound.
		return nil, fmt.Errorf("failed to get current rate for %s: %w", currencyCode, err)
	}
	return rate, nil
}

// ListCurrentRates retrieves the currently valid rate for every currency that has one.
func (s *exchangeRateService) ListCurrentRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListCurrentRates(ctx, time.Now())
	if err != nil {
		s.LogError(ctx, err, "failed to list current rates")
		return nil, fmt.Errorf("failed to list current rates: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}

// ImportRates persists a batch of rates, typically from fixtures.
func (s *exchangeRateService) ImportRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}
	for i := range rates {
		r := &rates[i]
		if r.CurrencyCode == s.baseCurrency {
			return fmt.Errorf("%w: the base currency %s cannot carry a stored rate", apperrors.ErrValidation, s.baseCurrency)
		}
		if r.RatePerBase.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: rate for %s must be positive", apperrors.ErrValidation, r.CurrencyCode)
		}
		if r.ValidTo != nil && !r.ValidTo.After(r.ValidFrom) {
			return fmt.Errorf("%w: validTo must be after validFrom for %s", apperrors.ErrValidation, r.CurrencyCode)
		}
	}

	if err := s.rateRepo.SaveExchangeRates(ctx, rates); err != nil {
		s.LogError(ctx, err, "failed to import rates", "count", len(rates))
		return fmt.Errorf("failed to import rates: %w", err)
	}
	s.LogInfo(ctx, "imported exchange rates", "count", len(rates))
	return nil
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
