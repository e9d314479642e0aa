package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// apiKeyIDKey is the key used to store the authenticated API key's ID in the
// Gin context. Using a custom type prevents collisions.
const apiKeyIDKey = contextKey("apiKeyID")

// validatedKeyKey stores the full API key record when the request
// authenticated with x-api-key. JWT-authenticated requests do not carry it.
const validatedKeyKey = contextKey("validatedAPIKey")

// authMethodKey records how the request authenticated.
const authMethodKey = "authMethod"

const (
	AuthMethodAPIKey = "api_key"
	AuthMethodJWT    = "jwt"
)

// GetAPIKeyIDFromContext retrieves the authenticated API key ID from the Gin context.
// It returns the key ID and a boolean indicating if it was found.
func GetAPIKeyIDFromContext(c *gin.Context) (string, bool) {
	keyIDVal, exists := c.Get(string(apiKeyIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(apiKeyIDKey)
		if ctxVal != nil {
			keyID, ok := ctxVal.(string)
			return keyID, ok
		}
		return "", false
	}

	keyID, ok := keyIDVal.(string)
	if !ok {
		return "", false
	}

	return keyID, true
}

// GetAuthMethodFromContext reports how the current request authenticated.
func GetAuthMethodFromContext(c *gin.Context) (string, bool) {
	methodVal, exists := c.Get(authMethodKey)
	if !exists {
		return "", false
	}
	method, ok := methodVal.(string)
	return method, ok
}

// GetValidatedKeyFromContext retrieves the API key record stored by the API
// key middleware. Only present when the request authenticated with x-api-key.
func GetValidatedKeyFromContext(c *gin.Context) (*domain.APIKey, bool) {
	keyVal, exists := c.Get(string(validatedKeyKey))
	if !exists {
		return nil, false
	}
	key, ok := keyVal.(*domain.APIKey)
	if !ok || key == nil {
		return nil, false
	}
	return key, true
}
