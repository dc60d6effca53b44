package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Roles carried in the users.roles set
const (
	RoleAppUser = "AppUser"
	RoleAdmin   = "Admin"
)

// Account lifecycle statuses
const (
	StatusPending     = "Pending"
	StatusActive      = "Active"
	StatusDeactivated = "Deactivated"
)

// User is the full persistence-layer record. Password and RefreshToken hold
// bcrypt hashes and are never serialized; ID is the internal numeric key and
// UUID the public identifier.
type User struct {
	ID                             int64           `json:"-"`
	UUID                           uuid.UUID       `json:"uuid"`
	Email                          string          `json:"email"`
	Username                       string          `json:"username"`
	Password                       string          `json:"-"`
	RefreshToken                   *string         `json:"-"`
	Roles                          []string        `json:"roles"`
	Status                         string          `json:"status"`
	FirstName                      *string         `json:"first_name,omitempty"`
	LastName                       *string         `json:"last_name,omitempty"`
	Phone                          *string         `json:"phone,omitempty"`
	CompletedWelcome               bool            `json:"completed_welcome"`
	CompletedAdditionalInformation bool            `json:"completed_additional_information"`
	Metadata                       json.RawMessage `json:"metadata,omitempty"`
	LastLoginTime                  *time.Time      `json:"last_login_time,omitempty"`
	DeletedAt                      *time.Time      `json:"-"`
	CreatedAt                      time.Time       `json:"created_at"`
	UpdatedAt                      time.Time       `json:"updated_at"`
}

// Sanitized returns a copy with credential hashes blanked. The JSON tags
// already hide them; this protects code paths that inspect the struct
// directly.
func (u *User) Sanitized() *User {
	c := *u
	c.Password = ""
	c.RefreshToken = nil
	return &c
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
