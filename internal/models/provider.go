package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const ProviderGoogle = "Google"

// AuthProvider links a user to an external identity provider. At most one
// link exists per (user, provider) pair and links are never updated after
// creation.
type AuthProvider struct {
	ID           int64           `json:"-"`
	UUID         uuid.UUID       `json:"uuid"`
	UserID       int64           `json:"-"`
	Provider     string          `json:"provider"`
	ProviderID   string          `json:"provider_id"`
	ProviderData json.RawMessage `json:"provider_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
