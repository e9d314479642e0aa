package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/core/services"
)

// --- Test Suite ---
type ConversionServiceTestSuite struct {
	suite.Suite
	mockRateRepo     *MockExchangeRateRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.ConversionSvcFacade
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewConversionService(suite.mockRateRepo, suite.mockCurrencyRepo, "GBP")
}

// givenRate registers a current rate of ratePerBase units of code per 1 GBP.
func (suite *ConversionServiceTestSuite) givenRate(code, ratePerBase string) {
	rate := &domain.ExchangeRate{
		ExchangeRateID: "rate-" + code,
		CurrencyCode:   code,
		RatePerBase:    decimal.RequireFromString(ratePerBase),
		ValidFrom:      time.Now().Add(-time.Hour),
	}
	suite.mockRateRepo.On("FindCurrentRate", mock.Anything, code, mock.AnythingOfType("time.Time")).
		Return(rate, nil)
}

// givenCurrency registers currency metadata with the given fraction digits.
func (suite *ConversionServiceTestSuite) givenCurrency(code string, precision int) {
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, code).
		Return(&domain.Currency{CurrencyCode: code, Precision: precision}, nil)
}

// --- GetRate ---

func (suite *ConversionServiceTestSuite) TestGetRate_CrossCurrency() {
	suite.givenRate("USD", "1.25")
	suite.givenRate("EUR", "1.15")

	rate, err := suite.service.GetRate(context.Background(), "USD", "EUR")

	suite.Require().NoError(err)
	// 1.15 / 1.25 = 0.92
	suite.True(rate.Equal(decimal.RequireFromString("0.92")), "got %s", rate)
}

func (suite *ConversionServiceTestSuite) TestGetRate_FromBase() {
	suite.givenRate("EUR", "1.15")

	rate, err := suite.service.GetRate(context.Background(), "GBP", "EUR")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("1.15")), "got %s", rate)
	// The base currency itself never hits the store.
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate", mock.Anything, "GBP", mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestGetRate_ToBase() {
	suite.givenRate("USD", "1.25")

	rate, err := suite.service.GetRate(context.Background(), "USD", "GBP")

	suite.Require().NoError(err)
	// 1 / 1.25 = 0.8
	suite.True(rate.Equal(decimal.RequireFromString("0.8")), "got %s", rate)
}

func (suite *ConversionServiceTestSuite) TestGetRate_SameCurrency() {
	rate, err := suite.service.GetRate(context.Background(), "USD", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	// Identity needs no store access at all.
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
}

func (suite *ConversionServiceTestSuite) TestGetRate_SameUnknownCurrency() {
	// Identity holds even for codes the store has never heard of.
	rate, err := suite.service.GetRate(context.Background(), "ZZZ", "ZZZ")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
}

func (suite *ConversionServiceTestSuite) TestGetRate_NormalizesCodes() {
	suite.givenRate("USD", "1.25")
	suite.givenRate("EUR", "1.15")

	rate, err := suite.service.GetRate(context.Background(), " usd ", "eur")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("0.92")))
}

func (suite *ConversionServiceTestSuite) TestGetRate_Reciprocal() {
	suite.givenRate("USD", "1.25")
	suite.givenRate("EUR", "1.15")
	ctx := context.Background()

	forward, err := suite.service.GetRate(ctx, "USD", "EUR")
	suite.Require().NoError(err)
	backward, err := suite.service.GetRate(ctx, "EUR", "USD")
	suite.Require().NoError(err)

	// Each leg is rounded independently, so the product is within rounding
	// error of 1 rather than exactly 1.
	product := forward.Mul(backward)
	diff := decimal.NewFromInt(1).Sub(product).Abs()
	suite.True(diff.LessThanOrEqual(decimal.New(1, -6)), "product %s", product)
}

func (suite *ConversionServiceTestSuite) TestGetRate_RoundsToSevenPlaces() {
	// 1 / 3 = 0.333... must come back cut at seven decimal places.
	suite.givenRate("USD", "3")
	suite.givenRate("EUR", "1")

	rate, err := suite.service.GetRate(context.Background(), "USD", "EUR")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("0.3333333")), "got %s", rate)
}

func (suite *ConversionServiceTestSuite) TestGetRate_SourceNotFound() {
	suite.mockRateRepo.On("FindCurrentRate", mock.Anything, "XXX", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetRate(context.Background(), "XXX", "EUR")

	suite.Require().Error(err)
	var notFound *apperrors.CurrencyNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("XXX", notFound.Code)
	suite.Equal(apperrors.RoleSource, notFound.Role)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	// The destination is never resolved once the source has failed.
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate", mock.Anything, "EUR", mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestGetRate_DestinationNotFound() {
	suite.givenRate("USD", "1.25")
	suite.mockRateRepo.On("FindCurrentRate", mock.Anything, "XXX", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetRate(context.Background(), "USD", "XXX")

	suite.Require().Error(err)
	var notFound *apperrors.CurrencyNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("XXX", notFound.Code)
	suite.Equal(apperrors.RoleDestination, notFound.Role)
}

func (suite *ConversionServiceTestSuite) TestGetRate_BothUnknownReportsSource() {
	suite.mockRateRepo.On("FindCurrentRate", mock.Anything, "XXX", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetRate(context.Background(), "XXX", "YYY")

	suite.Require().Error(err)
	var notFound *apperrors.CurrencyNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("XXX", notFound.Code)
	suite.Equal(apperrors.RoleSource, notFound.Role)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate", mock.Anything, "YYY", mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestGetRate_StoreErrorCollapsesToNotFound() {
	// An infrastructure failure is indistinguishable from a missing currency
	// for the caller; both surface as CurrencyNotFound.
	suite.mockRateRepo.On("FindCurrentRate", mock.Anything, "USD", mock.AnythingOfType("time.Time")).
		Return(nil, assert.AnError).Once()

	_, err := suite.service.GetRate(context.Background(), "USD", "EUR")

	suite.Require().Error(err)
	var notFound *apperrors.CurrencyNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("USD", notFound.Code)
	suite.Equal(apperrors.RoleSource, notFound.Role)
}

func (suite *ConversionServiceTestSuite) TestGetRate_InvalidCode() {
	_, err := suite.service.GetRate(context.Background(), "US", "EUR")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
}

// --- Convert ---

func (suite *ConversionServiceTestSuite) TestConvert_CrossCurrency() {
	suite.givenRate("USD", "1.25")
	suite.givenRate("EUR", "1.15")
	suite.givenCurrency("EUR", 2)

	result, err := suite.service.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Equal("USD", result.SourceCurrencyCode)
	suite.Equal("EUR", result.DestinationCurrencyCode)
	suite.True(result.SourceAmount.Equal(decimal.NewFromInt(100)))
	suite.True(result.ExchangeRate.Equal(decimal.RequireFromString("0.92")), "rate %s", result.ExchangeRate)
	suite.True(result.DestinationAmount.Equal(decimal.RequireFromString("92")), "amount %s", result.DestinationAmount)
	suite.Equal("92.00", result.DestinationAmount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestConvert_ZeroPrecisionDestination() {
	suite.givenRate("USD", "1.25")
	suite.givenRate("JPY", "150")
	suite.givenCurrency("JPY", 0)

	result, err := suite.service.Convert(context.Background(), "USD", "JPY", decimal.NewFromInt(100))

	suite.Require().NoError(err)
	// 150 / 1.25 = 120
	suite.True(result.ExchangeRate.Equal(decimal.RequireFromString("120")), "rate %s", result.ExchangeRate)
	suite.True(result.DestinationAmount.Equal(decimal.RequireFromString("12000")), "amount %s", result.DestinationAmount)
}

func (suite *ConversionServiceTestSuite) TestConvert_FromBase() {
	suite.givenRate("EUR", "1.15")
	suite.givenCurrency("EUR", 2)

	result, err := suite.service.Convert(context.Background(), "GBP", "EUR", decimal.NewFromInt(10))

	suite.Require().NoError(err)
	suite.True(result.ExchangeRate.Equal(decimal.RequireFromString("1.15")))
	suite.Equal("11.50", result.DestinationAmount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestConvert_ToBase() {
	suite.givenRate("USD", "1.25")
	suite.givenCurrency("GBP", 2)

	result, err := suite.service.Convert(context.Background(), "USD", "GBP", decimal.NewFromInt(10))

	suite.Require().NoError(err)
	suite.True(result.ExchangeRate.Equal(decimal.RequireFromString("0.8")))
	suite.Equal("8.00", result.DestinationAmount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestConvert_SameCurrency() {
	suite.givenCurrency("USD", 2)

	result, err := suite.service.Convert(context.Background(), "USD", "USD", decimal.RequireFromString("42.42"))

	suite.Require().NoError(err)
	suite.True(result.ExchangeRate.Equal(decimal.NewFromInt(1)))
	suite.True(result.DestinationAmount.Equal(decimal.RequireFromString("42.42")))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
}

func (suite *ConversionServiceTestSuite) TestConvert_ZeroAmount() {
	suite.givenRate("USD", "1.25")
	suite.givenRate("EUR", "1.15")
	suite.givenCurrency("EUR", 2)

	result, err := suite.service.Convert(context.Background(), "USD", "EUR", decimal.Zero)

	suite.Require().NoError(err)
	suite.True(result.DestinationAmount.IsZero())
	suite.True(result.ExchangeRate.Equal(decimal.RequireFromString("0.92")))
}

func (suite *ConversionServiceTestSuite) TestConvert_NegativeAmount() {
	result, err := suite.service.Convert(context.Background(), "USD", "EUR", decimal.RequireFromString("-0.01"))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode")
}

func (suite *ConversionServiceTestSuite) TestConvert_RateRoundedBeforeMultiply() {
	// 1/3 rounds to 0.3333333; a large amount amplifies the difference
	// between multiplying by the rounded rate and the raw quotient.
	suite.givenRate("USD", "3")
	suite.givenRate("EUR", "1")
	suite.givenCurrency("EUR", 2)

	result, err := suite.service.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(3000000))

	suite.Require().NoError(err)
	suite.True(result.ExchangeRate.Equal(decimal.RequireFromString("0.3333333")))
	// 3000000 * 0.3333333 = 999999.90, not the 1000000.00 the unrounded
	// quotient would give.
	suite.Equal("999999.90", result.DestinationAmount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundsHalfAwayFromZero() {
	// 10.05 EUR per base, source 10 per base: rate 1.005. 5 * 1.005 = 5.025,
	// which at 2 fraction digits must round up to 5.03.
	suite.givenRate("USD", "10")
	suite.givenRate("EUR", "10.05")
	suite.givenCurrency("EUR", 2)

	result, err := suite.service.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(5))

	suite.Require().NoError(err)
	suite.Equal("5.03", result.DestinationAmount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestConvert_SourceNotFound() {
	suite.mockRateRepo.On("FindCurrentRate", mock.Anything, "XXX", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.Convert(context.Background(), "XXX", "EUR", decimal.NewFromInt(1))

	suite.Require().Error(err)
	suite.Nil(result)
	var notFound *apperrors.CurrencyNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("XXX", notFound.Code)
	suite.Equal(apperrors.RoleSource, notFound.Role)
}

func (suite *ConversionServiceTestSuite) TestConvert_DestinationMetadataMissing() {
	// Both rates resolve, but the destination has no currency record to take
	// a precision from. That miss carries the destination role too.
	suite.givenRate("USD", "1.25")
	suite.givenRate("EUR", "1.15")
	suite.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, "EUR").
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(1))

	suite.Require().Error(err)
	suite.Nil(result)
	var notFound *apperrors.CurrencyNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("EUR", notFound.Code)
	suite.Equal(apperrors.RoleDestination, notFound.Role)
}

func (suite *ConversionServiceTestSuite) TestConvert_InvalidDestinationCode() {
	_, err := suite.service.Convert(context.Background(), "USD", "EURO", decimal.NewFromInt(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate")
}

// --- Run Suite ---
func TestConversionService(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
