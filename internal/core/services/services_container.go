package services

import (
	portsrepo "github.com/sterlingfx/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency service first since the rate services depend on it
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency, cfg.BaseCurrencyCode)
	container.Conversion = NewConversionService(repos.ExchangeRateRepo, repos.CurrencyRepo, cfg.BaseCurrencyCode)
	container.APIKey = NewAPIKeyService(repos.APIKeyRepo)
	container.Token = NewTokenService(cfg)

	return container
}
