package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores how many units of a currency one unit of the base
// currency buys, together with the window the quote is valid for.
// Rates for the base currency itself are never stored; it has an implicit
// rate of exactly 1.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	CurrencyCode   string          `json:"currencyCode"`   // FK -> Currency.currencyCode
	RatePerBase    decimal.Decimal `json:"ratePerBase"`    // Units of CurrencyCode per 1 base unit, > 0
	ValidFrom      time.Time       `json:"validFrom"`
	ValidTo        *time.Time      `json:"validTo,omitempty"` // nil means open-ended
	AuditFields
}

// IsValidAt reports whether the rate's validity window covers the given instant.
func (r *ExchangeRate) IsValidAt(at time.Time) bool {
	if at.Before(r.ValidFrom) {
		return false
	}
	return r.ValidTo == nil || at.Before(*r.ValidTo)
}
