package services

import (
	"context"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// TokenSvcFacade defines the interface for issuing short-lived access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a JWT for the given API key identity.
	GenerateAccessToken(ctx context.Context, key *domain.APIKey) (string, time.Time, error)
}
