package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmilosev/ledara-api/internal/apperr"
	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/models"
)

func setupActivityService(t *testing.T) (*ActivityService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewActivityService(&database.DB{Pool: mock}), mock
}

func expectUserLookup(mock pgxmock.PgxPoolIface, userUUID uuid.UUID, userID int64) {
	mock.ExpectQuery(`SELECT id FROM users WHERE uuid`).
		WithArgs(userUUID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(userID))
}

func TestActivityService_GetActivityFeed_MergesAndSortsDescending(t *testing.T) {
	svc, mock := setupActivityService(t)
	ctx := context.Background()
	userUUID := uuid.New()
	now := time.Now()

	expectUserLookup(mock, userUUID, 1)

	resourceID := uuid.New().String()
	mock.ExpectQuery(`SELECT .+ FROM audit_logs`).
		WithArgs(int64(1), 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "action", "resource", "resource_id", "metadata", "created_at"}).
			AddRow(uuid.New(), "login", "User", &resourceID, json.RawMessage(`{}`), now.Add(-1*time.Hour)).
			AddRow(uuid.New(), "update_profile", "User", (*string)(nil), json.RawMessage(nil), now.Add(-3*time.Hour)))

	mock.ExpectQuery(`SELECT .+ FROM agent_user_conversations`).
		WithArgs(int64(1), feedSourceCap).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "agent_uuid", "agent_name"}).
			AddRow(uuid.New(), now.Add(-2*time.Hour), uuid.New(), "Helper"))

	mock.ExpectQuery(`SELECT .+ FROM collection_entries`).
		WithArgs(int64(1), feedSourceCap).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "def_uuid", "def_name"}).
			AddRow(uuid.New(), now.Add(-30*time.Minute), uuid.New(), "Notes"))

	items, err := svc.GetActivityFeed(ctx, userUUID, 50, 0)

	require.NoError(t, err)
	require.Len(t, items, 4)

	for i := 1; i < len(items); i++ {
		assert.True(t, items[i-1].Timestamp.After(items[i].Timestamp),
			"feed must be sorted newest first")
	}

	assert.Equal(t, models.ActivityTypeCollectionEntry, items[0].Type)
	assert.Equal(t, models.ActivityTypeAudit, items[1].Type)
	assert.Equal(t, models.ActivityTypeConversation, items[2].Type)
	assert.Equal(t, models.ActivityTypeAudit, items[3].Type)
	assert.Equal(t, "Started conversation with Helper", items[2].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityService_GetActivityFeed_TruncatesToLimit(t *testing.T) {
	svc, mock := setupActivityService(t)
	ctx := context.Background()
	userUUID := uuid.New()
	now := time.Now()

	expectUserLookup(mock, userUUID, 1)

	mock.ExpectQuery(`SELECT .+ FROM audit_logs`).
		WithArgs(int64(1), 2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "action", "resource", "resource_id", "metadata", "created_at"}).
			AddRow(uuid.New(), "login", "User", (*string)(nil), json.RawMessage(nil), now.Add(-1*time.Hour)).
			AddRow(uuid.New(), "login", "User", (*string)(nil), json.RawMessage(nil), now.Add(-2*time.Hour)))

	mock.ExpectQuery(`SELECT .+ FROM agent_user_conversations`).
		WithArgs(int64(1), feedSourceCap).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "agent_uuid", "agent_name"}).
			AddRow(uuid.New(), now, uuid.New(), "Helper"))

	mock.ExpectQuery(`SELECT .+ FROM collection_entries`).
		WithArgs(int64(1), feedSourceCap).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "def_uuid", "def_name"}))

	items, err := svc.GetActivityFeed(ctx, userUUID, 2, 0)

	require.NoError(t, err)
	require.Len(t, items, 2)

	// The newest item across all sources survives truncation.
	assert.Equal(t, models.ActivityTypeConversation, items[0].Type)
}

func TestActivityService_GetActivityFeed_DefaultsLimit(t *testing.T) {
	svc, mock := setupActivityService(t)
	ctx := context.Background()
	userUUID := uuid.New()

	expectUserLookup(mock, userUUID, 1)

	mock.ExpectQuery(`SELECT .+ FROM audit_logs`).
		WithArgs(int64(1), defaultFeedLimit, 0).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "action", "resource", "resource_id", "metadata", "created_at"}))
	mock.ExpectQuery(`SELECT .+ FROM agent_user_conversations`).
		WithArgs(int64(1), feedSourceCap).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "agent_uuid", "agent_name"}))
	mock.ExpectQuery(`SELECT .+ FROM collection_entries`).
		WithArgs(int64(1), feedSourceCap).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "def_uuid", "def_name"}))

	items, err := svc.GetActivityFeed(ctx, userUUID, 0, -5)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityService_GetActivityFeed_UserNotFound(t *testing.T) {
	svc, mock := setupActivityService(t)
	userUUID := uuid.New()

	mock.ExpectQuery(`SELECT id FROM users WHERE uuid`).
		WithArgs(userUUID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetActivityFeed(context.Background(), userUUID, 50, 0)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestActivityService_GetRecentConversations(t *testing.T) {
	svc, mock := setupActivityService(t)
	ctx := context.Background()
	userUUID := uuid.New()
	now := time.Now()

	expectUserLookup(mock, userUUID, 7)

	description := "answers questions"
	mock.ExpectQuery(`SELECT .+ FROM agent_user_conversations`).
		WithArgs(int64(7), 5).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "updated_at", "agent_uuid", "agent_name", "agent_description", "count"}).
			AddRow(uuid.New(), now.Add(-time.Hour), now, uuid.New(), "Helper", &description, int64(12)))

	conversations, err := svc.GetRecentConversations(ctx, userUUID, 5)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Helper", conversations[0].AgentName)
	assert.Equal(t, int64(12), conversations[0].MessageCount)
}

func TestActivityService_GetCollectionActivities(t *testing.T) {
	svc, mock := setupActivityService(t)
	ctx := context.Background()
	userUUID := uuid.New()
	now := time.Now()

	expectUserLookup(mock, userUUID, 7)

	mock.ExpectQuery(`SELECT .+ FROM collection_entries`).
		WithArgs(int64(7), 20).
		WillReturnRows(pgxmock.NewRows([]string{"uuid", "created_at", "updated_at", "def_uuid", "def_name", "def_slug"}).
			AddRow(uuid.New(), now.Add(-time.Hour), now, uuid.New(), "Notes", "notes"))

	activities, err := svc.GetCollectionActivities(ctx, userUUID, 0)

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Notes", activities[0].CollectionName)
	assert.Equal(t, "notes", activities[0].CollectionSlug)
}
