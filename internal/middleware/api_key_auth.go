package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
)

// APIKeyAuth is a middleware that authenticates requests using the x-api-key
// header. A missing or invalid key is not fatal here: the request falls
// through to the JWT middleware, which rejects anything still unauthenticated.
func APIKeyAuth(keySvc portssvc.APIKeySvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next()
			return
		}

		key, err := keySvc.ValidateKey(c.Request.Context(), apiKey)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Debug("api key validation failed", slog.String("error", err.Error()))
			c.Next()
			return
		}

		// Key is valid, record the identity and skip JWT auth
		c.Set(string(apiKeyIDKey), key.APIKeyID)
		c.Set(string(validatedKeyKey), key)
		c.Set(authMethodKey, AuthMethodAPIKey)

		// Enrich the request-context logger so downstream log lines carry the key ID
		enrichedLogger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("api_key_id", key.APIKeyID))
		ctx := context.WithValue(c.Request.Context(), apiKeyIDKey, key.APIKeyID)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
