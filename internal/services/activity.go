package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vmilosev/ledara-api/internal/apperr"
	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/models"
)

const (
	defaultFeedLimit = 50
	// Conversation and collection-entry windows are capped independently of
	// limit/offset. This matches the upstream feed semantics: only the
	// audit-log source is paginated, so pages beyond the first are not
	// guaranteed disjoint.
	feedSourceCap = 10
)

// ActivityService aggregates heterogeneous user events into one
// time-ordered feed.
type ActivityService struct {
	db *database.DB
}

func NewActivityService(db *database.DB) *ActivityService {
	return &ActivityService{db: db}
}

// GetActivityFeed fetches three independently bounded windows (audit logs,
// recent conversations, recent collection entries), maps them into the
// common ActivityItem shape, merges and sorts descending by timestamp, then
// truncates to limit.
func (s *ActivityService) GetActivityFeed(ctx context.Context, userUUID uuid.UUID, limit, offset int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	userID, err := userIDByUUID(ctx, s.db, userUUID)
	if err != nil {
		return nil, err
	}

	items := make([]models.ActivityItem, 0, limit+2*feedSourceCap)

	auditItems, err := s.auditLogItems(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items = append(items, auditItems...)

	conversationItems, err := s.conversationItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	items = append(items, conversationItems...)

	entryItems, err := s.collectionEntryItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	items = append(items, entryItems...)

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *ActivityService) auditLogItems(ctx context.Context, userID int64, limit, offset int) ([]models.ActivityItem, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT uuid, action, resource, resource_id, metadata, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		var log models.AuditLog
		if err := rows.Scan(&log.UUID, &log.Action, &log.Resource, &log.ResourceID, &log.Metadata, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		related := &models.RelatedEntity{Type: log.Resource}
		if log.ResourceID != nil {
			if id, err := uuid.Parse(*log.ResourceID); err == nil {
				related.ID = id
			}
		}

		items = append(items, models.ActivityItem{
			ID:            log.UUID,
			Type:          models.ActivityTypeAudit,
			Action:        log.Action,
			Description:   fmt.Sprintf("%s on %s", log.Action, log.Resource),
			Timestamp:     log.CreatedAt,
			Metadata:      log.Metadata,
			RelatedEntity: related,
		})
	}
	return items, rows.Err()
}

func (s *ActivityService) conversationItems(ctx context.Context, userID int64) ([]models.ActivityItem, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.uuid, c.created_at, a.uuid, a.name
		FROM agent_user_conversations c
		JOIN agents a ON a.id = c.agent_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2
	`, userID, feedSourceCap)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		var item models.ActivityItem
		var agentUUID uuid.UUID
		var agentName string
		if err := rows.Scan(&item.ID, &item.Timestamp, &agentUUID, &agentName); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}

		item.Type = models.ActivityTypeConversation
		item.Action = "started_conversation"
		item.Description = fmt.Sprintf("Started conversation with %s", agentName)
		item.RelatedEntity = &models.RelatedEntity{Type: "Agent", ID: agentUUID, Name: agentName}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *ActivityService) collectionEntryItems(ctx context.Context, userID int64) ([]models.ActivityItem, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT e.uuid, e.created_at, d.uuid, d.name
		FROM collection_entries e
		JOIN collection_definitions d ON d.id = e.collection_definition_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2
	`, userID, feedSourceCap)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection entries: %w", err)
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		var item models.ActivityItem
		var defUUID uuid.UUID
		var defName string
		if err := rows.Scan(&item.ID, &item.Timestamp, &defUUID, &defName); err != nil {
			return nil, fmt.Errorf("failed to scan collection entry: %w", err)
		}

		item.Type = models.ActivityTypeCollectionEntry
		item.Action = "created_entry"
		item.Description = fmt.Sprintf("Created entry in %s", defName)
		item.RelatedEntity = &models.RelatedEntity{Type: "CollectionDefinition", ID: defUUID, Name: defName}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetRecentConversations lists the user's conversations by last update with
// agent details and message counts joined in.
func (s *ActivityService) GetRecentConversations(ctx context.Context, userUUID uuid.UUID, limit int) ([]models.ConversationSummary, error) {
	if limit <= 0 {
		limit = feedSourceCap
	}

	userID, err := userIDByUUID(ctx, s.db, userUUID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.uuid, c.created_at, c.updated_at, a.uuid, a.name, a.description,
			(SELECT COUNT(*) FROM agent_user_messages m WHERE m.conversation_id = c.id)
		FROM agent_user_conversations c
		JOIN agents a ON a.id = c.agent_id
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.ConversationSummary
	for rows.Next() {
		var c models.ConversationSummary
		if err := rows.Scan(&c.UUID, &c.CreatedAt, &c.UpdatedAt, &c.AgentUUID, &c.AgentName, &c.AgentDescription, &c.MessageCount); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// GetCollectionActivities lists the user's collection entries by last update
// with definition details joined in.
func (s *ActivityService) GetCollectionActivities(ctx context.Context, userUUID uuid.UUID, limit int) ([]models.CollectionActivity, error) {
	if limit <= 0 {
		limit = 20
	}

	userID, err := userIDByUUID(ctx, s.db, userUUID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT e.uuid, e.created_at, e.updated_at, d.uuid, d.name, d.slug
		FROM collection_entries e
		JOIN collection_definitions d ON d.id = e.collection_definition_id
		WHERE e.user_id = $1
		ORDER BY e.updated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection entries: %w", err)
	}
	defer rows.Close()

	var activities []models.CollectionActivity
	for rows.Next() {
		var a models.CollectionActivity
		if err := rows.Scan(&a.UUID, &a.CreatedAt, &a.UpdatedAt, &a.CollectionUUID, &a.CollectionName, &a.CollectionSlug); err != nil {
			return nil, fmt.Errorf("failed to scan collection entry: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// userIDByUUID resolves a public UUID to the internal numeric id. A missing
// user is a not-found error for every read-shape service.
func userIDByUUID(ctx context.Context, db *database.DB, id uuid.UUID) (int64, error) {
	var userID int64
	err := db.Pool.QueryRow(ctx, `SELECT id FROM users WHERE uuid = $1`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("user not found")
		}
		return 0, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}
