package domain

// Currency represents a supported currency and its display metadata.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int    `json:"precision"`    // Fraction digits for amounts (2 for USD, 0 for JPY)
	AuditFields
}
