package models

import (
	"time"

	"github.com/google/uuid"
)

// QuotaDefinition names a limitable resource category.
type QuotaDefinition struct {
	ID          int64     `json:"-"`
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuotaStatus is one per-user quota counter with its derived figures.
// RemainingQuota is nil and UsagePercentage 0 when the quota is unlimited.
type QuotaStatus struct {
	UUID            uuid.UUID       `json:"uuid"`
	QuotaDefinition QuotaDefinition `json:"quota_definition"`
	CurrentUsage    int64           `json:"current_usage"`
	Limit           int64           `json:"limit"`
	IsUnlimited     bool            `json:"is_unlimited"`
	ResetDate       *time.Time      `json:"reset_date,omitempty"`
	RemainingQuota  *int64          `json:"remaining_quota"`
	UsagePercentage float64         `json:"usage_percentage"`
}

// QuotaUsage is one append-only usage history row.
type QuotaUsage struct {
	ID                int64     `json:"-"`
	UserID            int64     `json:"-"`
	QuotaDefinitionID int64     `json:"-"`
	Usage             int64     `json:"usage"`
	CreatedAt         time.Time `json:"created_at"`
}

// QuotaEvent is one append-only quota event row with its definition joined.
type QuotaEvent struct {
	UUID            uuid.UUID       `json:"uuid"`
	QuotaDefinition QuotaDefinition `json:"quota_definition"`
	EventType       string          `json:"event_type"`
	Amount          int64           `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// QuotaOverview is the full quota read returned to the caller.
type QuotaOverview struct {
	Quotas      []QuotaStatus `json:"quotas"`
	TotalUsage  int64         `json:"total_usage"`
	RecentUsage []QuotaUsage  `json:"recent_usage"`
}
