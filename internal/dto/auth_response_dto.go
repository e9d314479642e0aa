package dto

import "time"

// TokenResponse represents the response for a successful token exchange.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
