package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/utils"
)

// conversionService computes cross-rates by triangulating through the base
// currency: every stored rate is "units of X per 1 base unit", so the rate
// from A to B is ratePerBase(B) / ratePerBase(A), with the base itself
// carrying an implicit rate of exactly 1. One general formula covers
// base-to-X, X-to-base and X-to-Y alike.
type conversionService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateReader
	currencyRepo portsrepo.CurrencyReader
	baseCurrency string
}

// NewConversionService creates a new conversion service instance.
// baseCurrency is the code all stored rates are expressed against.
func NewConversionService(rateRepo portsrepo.ExchangeRateReader, currencyRepo portsrepo.CurrencyReader, baseCurrency string) portssvc.ConversionSvcFacade {
	return &conversionService{
		rateRepo:     rateRepo,
		currencyRepo: currencyRepo,
		baseCurrency: strings.ToUpper(strings.TrimSpace(baseCurrency)),
	}
}

var one = decimal.NewFromInt(1)

// normalizeCode uppercases a currency code and rejects malformed input.
func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return code, nil
}

// ratePerBase resolves how many units of code one base unit buys at the given
// instant. The base currency never hits the store. Any store failure,
// including plain I/O errors, is collapsed into CurrencyNotFound for the
// given role: the caller cannot act on the distinction and must not receive a
// partially converted result.
func (s *conversionService) ratePerBase(ctx context.Context, code string, role apperrors.CurrencyRole, at time.Time) (decimal.Decimal, error) {
	if code == s.baseCurrency {
		return one, nil
	}
	rate, err := s.rateRepo.FindCurrentRate(ctx, code, at)
	if err != nil {
		s.LogDebug(ctx, "rate lookup failed", "currency_code", code, "role", string(role), "error", err.Error())
		return decimal.Decimal{}, apperrors.NewCurrencyNotFound(code, role)
	}
	return rate.RatePerBase, nil
}

// rateAt computes the cross-rate between two normalized codes at an instant,
// rounded to domain.RatePrecision. Source is resolved before destination so a
// double miss reports the source.
func (s *conversionService) rateAt(ctx context.Context, sourceCode, destinationCode string, at time.Time) (decimal.Decimal, error) {
	if sourceCode == destinationCode {
		// Self-conversion is exactly 1 with no lookups, even for codes the
		// store has never heard of.
		return one, nil
	}

	srcPerBase, err := s.ratePerBase(ctx, sourceCode, apperrors.RoleSource, at)
	if err != nil {
		return decimal.Decimal{}, err
	}
	dstPerBase, err := s.ratePerBase(ctx, destinationCode, apperrors.RoleDestination, at)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return dstPerBase.Div(srcPerBase).Round(domain.RatePrecision), nil
}

// GetRate returns the exchange rate from source to destination, rounded to
// domain.RatePrecision decimal places.
func (s *conversionService) GetRate(ctx context.Context, sourceCode, destinationCode string) (decimal.Decimal, error) {
	source, err := normalizeCode(sourceCode)
	if err != nil {
		return decimal.Decimal{}, err
	}
	destination, err := normalizeCode(destinationCode)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return s.rateAt(ctx, source, destination, time.Now())
}

// Convert applies the rounded cross-rate to amount and rounds the result to
// the destination currency's precision. The rate is rounded before the
// multiplication so the reported rate is exactly the rate applied.
func (s *conversionService) Convert(ctx context.Context, sourceCode, destinationCode string, amount decimal.Decimal) (*domain.ConversionResult, error) {
	if amount.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	source, err := normalizeCode(sourceCode)
	if err != nil {
		return nil, err
	}
	destination, err := normalizeCode(destinationCode)
	if err != nil {
		return nil, err
	}

	// One instant for both lookups. Rates rotating between the two store
	// reads is an accepted consistency window, not something to lock against.
	now := time.Now()

	rate, err := s.rateAt(ctx, source, destination, now)
	if err != nil {
		return nil, err
	}

	precision, err := s.fractionDigits(ctx, destination)
	if err != nil {
		return nil, err
	}

	result := &domain.ConversionResult{
		SourceCurrencyCode:      source,
		DestinationCurrencyCode: destination,
		SourceAmount:            amount,
		DestinationAmount:       utils.RoundToPrecision(amount.Mul(rate), precision),
		ExchangeRate:            rate,
	}
	return result, nil
}

// fractionDigits returns the destination currency's display precision.
// Metadata misses collapse into CurrencyNotFound the same way rate misses do.
func (s *conversionService) fractionDigits(ctx context.Context, code string) (int, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		s.LogDebug(ctx, "currency metadata lookup failed", "currency_code", code, "error", err.Error())
		return 0, apperrors.NewCurrencyNotFound(code, apperrors.RoleDestination)
	}
	return currency.Precision, nil
}

var _ portssvc.ConversionSvcFacade = (*conversionService)(nil)
