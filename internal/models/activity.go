package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity item types
const (
	ActivityTypeAudit           = "audit"
	ActivityTypeConversation    = "conversation"
	ActivityTypeCollectionEntry = "collection_entry"
)

// ActivityItem is the common shape every feed source is mapped into before
// the merge.
type ActivityItem struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Action        string          `json:"action"`
	Description   string          `json:"description"`
	Timestamp     time.Time       `json:"timestamp"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	RelatedEntity *RelatedEntity  `json:"related_entity,omitempty"`
}

type RelatedEntity struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// AuditLog records a single user-attributed action against a resource.
type AuditLog struct {
	ID         int64           `json:"-"`
	UUID       uuid.UUID       `json:"uuid"`
	UserID     int64           `json:"-"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID *string         `json:"resource_id,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ConversationSummary is a conversation row with its agent joined in.
type ConversationSummary struct {
	UUID             uuid.UUID `json:"uuid"`
	AgentUUID        uuid.UUID `json:"agent_uuid"`
	AgentName        string    `json:"agent_name"`
	AgentDescription *string   `json:"agent_description,omitempty"`
	MessageCount     int64     `json:"message_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CollectionActivity is a collection entry with its definition joined in.
type CollectionActivity struct {
	UUID           uuid.UUID `json:"uuid"`
	CollectionUUID uuid.UUID `json:"collection_uuid"`
	CollectionName string    `json:"collection_name"`
	CollectionSlug string    `json:"collection_slug"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
