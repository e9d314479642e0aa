package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// CreatedBy/LastUpdatedBy carry the API key ID of the caller, or a
// well-known actor name such as "fixtures" for automated loads.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// SystemActor is the audit identity used for writes not tied to an API key.
const SystemActor = "system"

// FixtureActor is the audit identity used for CSV fixture ingestion.
const FixtureActor = "fixtures"
