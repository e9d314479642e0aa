package dto

import (
	"time"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
)

// CreateAPIKeyRequest represents the request body for creating a new API key
type CreateAPIKeyRequest struct {
	Name      string         `json:"name" binding:"required,min=3,max=100"`
	ExpiresIn *time.Duration `json:"expiresIn,omitempty"` // Duration in nanoseconds, as encoding/json encodes time.Duration
}

// APIKeyResponse represents an API key in the API responses
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"keyPrefix"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateAPIKeyResponse represents the response when creating a new API key
type CreateAPIKeyResponse struct {
	Key     string         `json:"key"` // Only shown once when created
	Details APIKeyResponse `json:"details"`
}

// ToAPIKeyResponse converts a domain.APIKey to an APIKeyResponse
func ToAPIKeyResponse(key domain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         key.APIKeyID,
		Name:       key.Name,
		KeyPrefix:  key.KeyPrefix,
		LastUsedAt: key.LastUsedAt,
		ExpiresAt:  key.ExpiresAt,
		RevokedAt:  key.RevokedAt,
		CreatedAt:  key.CreatedAt,
	}
}

// ToAPIKeyResponseList converts a slice of domain.APIKey to response DTOs
func ToAPIKeyResponseList(keys []domain.APIKey) []APIKeyResponse {
	result := make([]APIKeyResponse, len(keys))
	for i, key := range keys {
		result[i] = ToAPIKeyResponse(key)
	}
	return result
}

// ToCreateAPIKeyResponse converts a plaintext key and domain.APIKey to CreateAPIKeyResponse
func ToCreateAPIKeyResponse(plaintext string, key domain.APIKey) CreateAPIKeyResponse {
	return CreateAPIKeyResponse{
		Key:     plaintext,
		Details: ToAPIKeyResponse(key),
	}
}
