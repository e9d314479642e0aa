package domain

import "time"

// APIKey represents a credential for authenticating API requests.
// The plaintext secret is shown to the caller exactly once at creation;
// only its bcrypt hash and a short lookup prefix are stored.
type APIKey struct {
	APIKeyID   string     `json:"apiKeyID"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"keyPrefix"` // First characters of the secret, used for lookup
	KeyHash    string     `json:"-"`         // Never expose the hash in JSON responses
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsExpired checks if the key has expired.
func (k *APIKey) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return k.ExpiresAt.Before(time.Now())
}

// IsRevoked checks if the key has been revoked.
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// UpdateLastUsed sets the LastUsedAt timestamp to the current time.
func (k *APIKey) UpdateLastUsed() {
	now := time.Now()
	k.LastUsedAt = &now
}
