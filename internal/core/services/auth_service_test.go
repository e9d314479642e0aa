package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	"github.com/sterlingfx/currency_converter_app/internal/core/services"
	"github.com/sterlingfx/currency_converter_app/internal/platform/config"
	"github.com/sterlingfx/currency_converter_app/internal/utils"
)

func TestGenerateAccessToken(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "cca-test",
	}
	service := services.NewTokenService(cfg)
	key := &domain.APIKey{APIKeyID: uuid.NewString(), Name: "ci"}

	token, expiresAt, err := service.GenerateAccessToken(context.Background(), key)

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	// The token must carry the key ID as its subject so request logs can be
	// tied back to the key.
	claims, err := utils.ParseAndValidateJWT(token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, key.APIKeyID, claims.Subject)
	assert.Equal(t, cfg.JWTIssuer, claims.Issuer)
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "cca-test",
	}
	service := services.NewTokenService(cfg)
	key := &domain.APIKey{APIKeyID: uuid.NewString()}

	token, _, err := service.GenerateAccessToken(context.Background(), key)
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "a-different-secret")
	assert.Error(t, err)
}
