package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/models"
)

const recentUsageWindow = 10

// QuotaService is a read-only view over per-user quota counters and their
// append-only usage history.
type QuotaService struct {
	db *database.DB
}

func NewQuotaService(db *database.DB) *QuotaService {
	return &QuotaService{db: db}
}

// GetUserQuota returns every quota counter for the user with remaining and
// percentage figures derived, plus the ten most recent usage rows and their
// sum. Unlimited quotas report nil remaining and zero percentage regardless
// of limit or usage.
func (s *QuotaService) GetUserQuota(ctx context.Context, userUUID uuid.UUID) (*models.QuotaOverview, error) {
	userID, err := userIDByUUID(ctx, s.db, userUUID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT q.uuid, q.current_usage, q.quota_limit, q.is_unlimited, q.reset_date,
			d.uuid, d.name, d.description, d.created_at
		FROM user_agent_quotas q
		JOIN quota_definitions d ON d.id = q.quota_definition_id
		WHERE q.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotas: %w", err)
	}
	defer rows.Close()

	quotas := []models.QuotaStatus{}
	for rows.Next() {
		var q models.QuotaStatus
		if err := rows.Scan(&q.UUID, &q.CurrentUsage, &q.Limit, &q.IsUnlimited, &q.ResetDate,
			&q.QuotaDefinition.UUID, &q.QuotaDefinition.Name, &q.QuotaDefinition.Description,
			&q.QuotaDefinition.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quota: %w", err)
		}

		if !q.IsUnlimited {
			remaining := q.Limit - q.CurrentUsage
			if remaining < 0 {
				remaining = 0
			}
			q.RemainingQuota = &remaining
			// A zero limit on a limited quota reports 0%, matching the
			// unlimited case rather than dividing by zero.
			if q.Limit > 0 {
				q.UsagePercentage = float64(q.CurrentUsage) / float64(q.Limit) * 100
			}
		}
		quotas = append(quotas, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, totalUsage, err := s.recentUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.QuotaOverview{
		Quotas:      quotas,
		TotalUsage:  totalUsage,
		RecentUsage: recent,
	}, nil
}

func (s *QuotaService) recentUsage(ctx context.Context, userID int64) ([]models.QuotaUsage, int64, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, user_id, quota_definition_id, usage, created_at
		FROM quota_usage
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, recentUsageWindow)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query quota usage: %w", err)
	}
	defer rows.Close()

	usage := []models.QuotaUsage{}
	var total int64
	for rows.Next() {
		var u models.QuotaUsage
		if err := rows.Scan(&u.ID, &u.UserID, &u.QuotaDefinitionID, &u.Usage, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan quota usage: %w", err)
		}
		total += u.Usage
		usage = append(usage, u)
	}
	return usage, total, rows.Err()
}

// GetQuotaEvents returns the user's quota event history, newest first.
func (s *QuotaService) GetQuotaEvents(ctx context.Context, userUUID uuid.UUID, limit int) ([]models.QuotaEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	userID, err := userIDByUUID(ctx, s.db, userUUID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT e.uuid, e.event_type, e.amount, e.created_at,
			d.uuid, d.name, d.description, d.created_at
		FROM quota_events e
		JOIN quota_definitions d ON d.id = e.quota_definition_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quota events: %w", err)
	}
	defer rows.Close()

	events := []models.QuotaEvent{}
	for rows.Next() {
		var e models.QuotaEvent
		if err := rows.Scan(&e.UUID, &e.EventType, &e.Amount, &e.CreatedAt,
			&e.QuotaDefinition.UUID, &e.QuotaDefinition.Name, &e.QuotaDefinition.Description,
			&e.QuotaDefinition.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quota event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CheckQuotaAvailable reports whether the user can consume from the given
// quota definition. A missing counter means no quota was granted.
func (s *QuotaService) CheckQuotaAvailable(ctx context.Context, userUUID, definitionUUID uuid.UUID) (bool, error) {
	userID, err := userIDByUUID(ctx, s.db, userUUID)
	if err != nil {
		return false, err
	}

	var currentUsage, limit int64
	var isUnlimited bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT q.current_usage, q.quota_limit, q.is_unlimited
		FROM user_agent_quotas q
		JOIN quota_definitions d ON d.id = q.quota_definition_id
		WHERE q.user_id = $1 AND d.uuid = $2
	`, userID, definitionUUID).Scan(&currentUsage, &limit, &isUnlimited)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query quota: %w", err)
	}

	if isUnlimited {
		return true, nil
	}
	return currentUsage < limit, nil
}
