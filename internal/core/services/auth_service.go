package services

import (
	"context"
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/platform/config"
	"github.com/sterlingfx/currency_converter_app/internal/utils"
)

// tokenService implements the TokenSvcFacade for issuing short-lived JWTs.
// Tokens are exchanged against a validated API key; the key ID becomes the
// JWT subject so request logs can be tied back to the key.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given API key identity.
func (s *tokenService) GenerateAccessToken(ctx context.Context, key *domain.APIKey) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(key.APIKeyID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)
