package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// activityLogRepository implements the append-only activity log using PostgreSQL
type activityLogRepository struct {
	db dbExecutor
}

// NewActivityLogRepository creates a new PostgreSQL activity log repository
func NewActivityLogRepository(db dbExecutor) ports.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// activityLogRow stores the typed detail payload as a JSONB column keyed by
// the action, which acts as the union tag on the way back out.
type activityLogRow struct {
	ID          string          `db:"id"`
	Timestamp   time.Time       `db:"timestamp"`
	Actor       string          `db:"actor"`
	Action      string          `db:"action"`
	Description string          `db:"description"`
	Detail      json.RawMessage `db:"detail"`
}

// Append records one activity entry
func (r *activityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	var detail json.RawMessage
	if entry.Detail != nil {
		raw, err := json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal activity detail: %w", err)
		}
		detail = raw
	}

	query := `
		INSERT INTO activity_log (id, timestamp, actor, action, description, detail)
		VALUES (:id, :timestamp, :actor, :action, :description, :detail)
	`

	row := &activityLogRow{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		Actor:       entry.Actor,
		Action:      string(entry.Action),
		Description: entry.Description,
		Detail:      detail,
	}

	_, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}

	return nil
}

// List retrieves entries newest-first
func (r *activityLogRepository) List(ctx context.Context, offset, limit int) ([]*models.ActivityLog, error) {
	query := `
		SELECT id, timestamp, actor, action, description, detail
		FROM activity_log
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	var rows []*activityLogRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}

	entries := make([]*models.ActivityLog, 0, len(rows))
	for _, row := range rows {
		entry := &models.ActivityLog{
			ID:          row.ID,
			Timestamp:   row.Timestamp,
			Actor:       row.Actor,
			Action:      models.ActivityAction(row.Action),
			Description: row.Description,
		}
		detail, err := models.DecodeActivityDetail(entry.Action, row.Detail)
		if err != nil {
			return nil, fmt.Errorf("failed to decode activity detail %s: %w", row.ID, err)
		}
		entry.Detail = detail
		entries = append(entries, entry)
	}
	return entries, nil
}
