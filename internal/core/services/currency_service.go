package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/dto"
)

// currencyService implements the CurrencySvcFacade interface
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new instance of currencyService
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

// CreateCurrency persists a new currency with its display precision.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creator string) (*domain.Currency, error) {
	// Code shape validation is handled by DTO binding tags.
	if req.Precision == nil || *req.Precision < 0 {
		return nil, fmt.Errorf("%w: precision must be zero or positive", apperrors.ErrValidation)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    *req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "failed to create currency", "currency_code", currency.CurrencyCode)
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	return &currency, nil
}

// GetCurrencyByCode retrieves a specific currency by its code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		// Repository maps missing rows to apperrors.ErrNotFound.
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

// ListCurrencies retrieves all available currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// ImportCurrencies upserts a batch of currencies, typically from fixtures.
func (s *currencyService) ImportCurrencies(ctx context.Context, currencies []domain.Currency) error {
	if len(currencies) == 0 {
		return nil
	}
	for i := range currencies {
		c := &currencies[i]
		if len(c.CurrencyCode) != 3 {
			return fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrValidation, c.CurrencyCode)
		}
		if c.Precision < 0 {
			return fmt.Errorf("%w: precision for %s must be zero or positive", apperrors.ErrValidation, c.CurrencyCode)
		}
	}

	if err := s.currencyRepo.SaveCurrencies(ctx, currencies); err != nil {
		s.LogError(ctx, err, "failed to import currencies", "count", len(currencies))
		return fmt.Errorf("failed to import currencies: %w", err)
	}
	s.LogInfo(ctx, "imported currencies", "count", len(currencies))
	return nil
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)
