package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/models"
)

// DefaultPassword is the plaintext password every fixture user is created with.
const DefaultPassword = "test-password-123"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values. The stored password is
// a bcrypt hash of DefaultPassword unless overridden.
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
		Username: fmt.Sprintf("user%d", f.counter),
		Password: DefaultPassword,
		Roles:    []string{models.RoleAppUser},
		Status:   models.StatusPending,
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password, roles, status, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, uuid, created_at, updated_at
	`, user.Email, user.Username, string(hash), user.Roles, user.Status,
		user.FirstName, user.LastName, user.Phone).Scan(
		&user.ID, &user.UUID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithUsername sets the user's username
func WithUsername(username string) UserOption {
	return func(u *models.User) {
		u.Username = username
	}
}

// WithPassword sets the user's plaintext password
func WithPassword(password string) UserOption {
	return func(u *models.User) {
		u.Password = password
	}
}

// WithStatus sets the user's account status
func WithStatus(status string) UserOption {
	return func(u *models.User) {
		u.Status = status
	}
}

// Agent is an agent row created by fixtures
type Agent struct {
	ID   int64
	UUID uuid.UUID
	Name string
}

// CreateAgent creates a test agent
func (f *Fixtures) CreateAgent(t *testing.T, name string) *Agent {
	t.Helper()

	agent := &Agent{Name: name}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO agents (name, description)
		VALUES ($1, $2)
		RETURNING id, uuid
	`, name, "test agent").Scan(&agent.ID, &agent.UUID)
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}
	return agent
}

// Conversation is a conversation row created by fixtures
type Conversation struct {
	ID   int64
	UUID uuid.UUID
}

// CreateConversation creates a conversation between a user and an agent with
// explicit timestamps so ordering assertions are deterministic.
func (f *Fixtures) CreateConversation(t *testing.T, user *models.User, agent *Agent, at time.Time) *Conversation {
	t.Helper()

	conv := &Conversation{}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO agent_user_conversations (user_id, agent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, uuid
	`, user.ID, agent.ID, at).Scan(&conv.ID, &conv.UUID)
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	return conv
}

// AddMessage appends a message to a conversation
func (f *Fixtures) AddMessage(t *testing.T, conv *Conversation, sender, content string) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO agent_user_messages (conversation_id, sender, content)
		VALUES ($1, $2, $3)
	`, conv.ID, sender, content)
	if err != nil {
		t.Fatalf("failed to add message: %v", err)
	}
}

// CreateAuditLog records an audit log row with an explicit timestamp
func (f *Fixtures) CreateAuditLog(t *testing.T, user *models.User, action, resource string, at time.Time) uuid.UUID {
	t.Helper()

	var logUUID uuid.UUID
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO audit_logs (user_id, action, resource, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING uuid
	`, user.ID, action, resource, json.RawMessage(`{}`), at).Scan(&logUUID)
	if err != nil {
		t.Fatalf("failed to create audit log: %v", err)
	}
	return logUUID
}

// CollectionDefinition is a collection definition row created by fixtures
type CollectionDefinition struct {
	ID   int64
	UUID uuid.UUID
	Name string
	Slug string
}

// CreateCollectionDefinition creates a collection definition
func (f *Fixtures) CreateCollectionDefinition(t *testing.T, name, slug string) *CollectionDefinition {
	t.Helper()

	def := &CollectionDefinition{Name: name, Slug: slug}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO collection_definitions (name, slug)
		VALUES ($1, $2)
		RETURNING id, uuid
	`, name, slug).Scan(&def.ID, &def.UUID)
	if err != nil {
		t.Fatalf("failed to create collection definition: %v", err)
	}
	return def
}

// CreateCollectionEntry creates an entry in a collection with an explicit
// timestamp
func (f *Fixtures) CreateCollectionEntry(t *testing.T, user *models.User, def *CollectionDefinition, at time.Time) uuid.UUID {
	t.Helper()

	var entryUUID uuid.UUID
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO collection_entries (user_id, collection_definition_id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING uuid
	`, user.ID, def.ID, json.RawMessage(`{}`), at).Scan(&entryUUID)
	if err != nil {
		t.Fatalf("failed to create collection entry: %v", err)
	}
	return entryUUID
}

// QuotaDefinition is a quota definition row created by fixtures
type QuotaDefinition struct {
	ID   int64
	UUID uuid.UUID
	Name string
}

// CreateQuotaDefinition creates a quota definition
func (f *Fixtures) CreateQuotaDefinition(t *testing.T, name string) *QuotaDefinition {
	t.Helper()

	def := &QuotaDefinition{Name: name}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO quota_definitions (name, description)
		VALUES ($1, $2)
		RETURNING id, uuid
	`, name, "test quota").Scan(&def.ID, &def.UUID)
	if err != nil {
		t.Fatalf("failed to create quota definition: %v", err)
	}
	return def
}

// CreateUserQuota grants the user a quota counter
func (f *Fixtures) CreateUserQuota(t *testing.T, user *models.User, def *QuotaDefinition, currentUsage, limit int64, isUnlimited bool) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO user_agent_quotas (user_id, quota_definition_id, current_usage, quota_limit, is_unlimited)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, def.ID, currentUsage, limit, isUnlimited)
	if err != nil {
		t.Fatalf("failed to create user quota: %v", err)
	}
}

// AddQuotaUsage appends a usage history row with an explicit timestamp
func (f *Fixtures) AddQuotaUsage(t *testing.T, user *models.User, def *QuotaDefinition, usage int64, at time.Time) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO quota_usage (user_id, quota_definition_id, usage, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, def.ID, usage, at)
	if err != nil {
		t.Fatalf("failed to add quota usage: %v", err)
	}
}

// AddQuotaEvent appends a quota event row
func (f *Fixtures) AddQuotaEvent(t *testing.T, user *models.User, def *QuotaDefinition, eventType string, amount int64, at time.Time) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO quota_events (user_id, quota_definition_id, event_type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, def.ID, eventType, amount, at)
	if err != nil {
		t.Fatalf("failed to add quota event: %v", err)
	}
}
