package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sterlingfx/currency_converter_app/internal/adapters/cache"
	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portscache "github.com/sterlingfx/currency_converter_app/internal/core/ports/cache"
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
)

// --- Mock inner repository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindCurrentRate(ctx context.Context, currencyCode string, at time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListCurrentRates(ctx context.Context, at time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

// fakeRateCache is a synchronous map-backed cache double. The real ristretto
// adapter admits writes asynchronously, which makes read-your-write assertions
// flaky; the fake keeps the decorator's behavior deterministic to test.
type fakeRateCache struct {
	entries map[string]domain.ExchangeRate
	sets    int
	clears  int
}

func newFakeRateCache() *fakeRateCache {
	return &fakeRateCache{entries: make(map[string]domain.ExchangeRate)}
}

func (f *fakeRateCache) Get(_ context.Context, currencyCode string) (*domain.ExchangeRate, bool) {
	rate, ok := f.entries[currencyCode]
	if !ok {
		return nil, false
	}
	return &rate, true
}

func (f *fakeRateCache) Set(_ context.Context, rate domain.ExchangeRate) {
	f.entries[rate.CurrencyCode] = rate
	f.sets++
}

func (f *fakeRateCache) Clear(_ context.Context) {
	f.entries = make(map[string]domain.ExchangeRate)
	f.clears++
}

func (f *fakeRateCache) Close() {}

var _ portscache.RateCache = (*fakeRateCache)(nil)

// --- Test Suite ---
type CachedRepositoryTestSuite struct {
	suite.Suite
	inner *MockExchangeRateRepository
	cache *fakeRateCache
	repo  portsrepo.ExchangeRateRepositoryFacade
}

func (suite *CachedRepositoryTestSuite) SetupTest() {
	suite.inner = new(MockExchangeRateRepository)
	suite.cache = newFakeRateCache()
	suite.repo = cache.NewCachedExchangeRateRepository(suite.inner, suite.cache)
}

func rateFixture(code string, validFrom time.Time, validTo *time.Time) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: "rate-" + code,
		CurrencyCode:   code,
		RatePerBase:    decimal.RequireFromString("1.25"),
		ValidFrom:      validFrom,
		ValidTo:        validTo,
	}
}

// --- Test Cases ---

func (suite *CachedRepositoryTestSuite) TestFindCurrentRate_MissPopulatesCache() {
	ctx := context.Background()
	now := time.Now()
	stored := rateFixture("USD", now.Add(-time.Hour), nil)

	suite.inner.On("FindCurrentRate", ctx, "USD", now).Return(&stored, nil).Once()

	rate, err := suite.repo.FindCurrentRate(ctx, "USD", now)

	suite.Require().NoError(err)
	suite.Equal("USD", rate.CurrencyCode)
	suite.Equal(1, suite.cache.sets)

	// A second read is served from the cache without touching the store.
	rate, err = suite.repo.FindCurrentRate(ctx, "USD", now)
	suite.Require().NoError(err)
	suite.Equal("USD", rate.CurrencyCode)
	suite.inner.AssertNumberOfCalls(suite.T(), "FindCurrentRate", 1)
}

func (suite *CachedRepositoryTestSuite) TestFindCurrentRate_StaleEntryFallsThrough() {
	ctx := context.Background()
	now := time.Now()

	// Cached entry whose validity window has already closed.
	expired := now.Add(-time.Minute)
	stale := rateFixture("USD", now.Add(-time.Hour), &expired)
	suite.cache.Set(ctx, stale)

	fresh := rateFixture("USD", now.Add(-time.Minute), nil)
	suite.inner.On("FindCurrentRate", ctx, "USD", now).Return(&fresh, nil).Once()

	rate, err := suite.repo.FindCurrentRate(ctx, "USD", now)

	suite.Require().NoError(err)
	suite.True(rate.ValidTo == nil)
	suite.inner.AssertExpectations(suite.T())
}

func (suite *CachedRepositoryTestSuite) TestFindCurrentRate_ErrorNotCached() {
	ctx := context.Background()
	now := time.Now()

	suite.inner.On("FindCurrentRate", ctx, "XXX", now).
		Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.repo.FindCurrentRate(ctx, "XXX", now)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(0, suite.cache.sets)
}

func (suite *CachedRepositoryTestSuite) TestSaveExchangeRate_ClearsCache() {
	ctx := context.Background()
	now := time.Now()
	cached := rateFixture("USD", now.Add(-time.Hour), nil)
	suite.cache.Set(ctx, cached)

	newRate := rateFixture("USD", now, nil)
	suite.inner.On("SaveExchangeRate", ctx, newRate).Return(nil).Once()

	err := suite.repo.SaveExchangeRate(ctx, newRate)

	suite.Require().NoError(err)
	suite.Equal(1, suite.cache.clears)
	suite.Empty(suite.cache.entries)
}

func (suite *CachedRepositoryTestSuite) TestSaveExchangeRate_ErrorKeepsCache() {
	ctx := context.Background()
	now := time.Now()
	cached := rateFixture("USD", now.Add(-time.Hour), nil)
	suite.cache.Set(ctx, cached)

	newRate := rateFixture("USD", now, nil)
	suite.inner.On("SaveExchangeRate", ctx, newRate).Return(assert.AnError).Once()

	err := suite.repo.SaveExchangeRate(ctx, newRate)

	suite.Require().Error(err)
	suite.Equal(0, suite.cache.clears)
	suite.Len(suite.cache.entries, 1)
}

func (suite *CachedRepositoryTestSuite) TestSaveExchangeRates_ClearsCache() {
	ctx := context.Background()
	now := time.Now()
	suite.cache.Set(ctx, rateFixture("USD", now.Add(-time.Hour), nil))
	suite.cache.Set(ctx, rateFixture("EUR", now.Add(-time.Hour), nil))

	batch := []domain.ExchangeRate{rateFixture("USD", now, nil)}
	suite.inner.On("SaveExchangeRates", ctx, batch).Return(nil).Once()

	err := suite.repo.SaveExchangeRates(ctx, batch)

	suite.Require().NoError(err)
	suite.Equal(1, suite.cache.clears)
	suite.Empty(suite.cache.entries)
}

func (suite *CachedRepositoryTestSuite) TestListCurrentRates_BypassesCache() {
	ctx := context.Background()
	now := time.Now()
	expected := []domain.ExchangeRate{rateFixture("USD", now.Add(-time.Hour), nil)}

	suite.inner.On("ListCurrentRates", ctx, now).Return(expected, nil).Once()

	rates, err := suite.repo.ListCurrentRates(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(expected, rates)
	suite.Equal(0, suite.cache.sets)
	suite.inner.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestCachedExchangeRateRepository(t *testing.T) {
	suite.Run(t, new(CachedRepositoryTestSuite))
}
