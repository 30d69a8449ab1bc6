package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/lib/pq"
)

// notificationLogRepository implements the append-only notification log using PostgreSQL
type notificationLogRepository struct {
	db dbExecutor
}

// NewNotificationLogRepository creates a new PostgreSQL notification log repository
func NewNotificationLogRepository(db dbExecutor) ports.NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

type notificationLogRow struct {
	ID                    string         `db:"id"`
	Kind                  string         `db:"kind"`
	EquipmentName         string         `db:"equipment_name"`
	EquipmentInternalCode string         `db:"equipment_internal_code"`
	Subject               string         `db:"subject"`
	Recipient             string         `db:"recipient"`
	Recipients            pq.StringArray `db:"recipients"`
	Status                string         `db:"status"`
	Error                 string         `db:"error"`
	CreatedAt             time.Time      `db:"created_at"`
	SentAt                time.Time      `db:"sent_at"`
}

func (row *notificationLogRow) toModel() *models.NotificationLog {
	return &models.NotificationLog{
		ID:                    row.ID,
		Kind:                  models.RuleKind(row.Kind),
		EquipmentName:         row.EquipmentName,
		EquipmentInternalCode: row.EquipmentInternalCode,
		Subject:               row.Subject,
		Recipient:             row.Recipient,
		Recipients:            []string(row.Recipients),
		Status:                models.DispatchStatus(row.Status),
		Error:                 row.Error,
		CreatedAt:             row.CreatedAt,
		SentAt:                row.SentAt,
	}
}

// Append records one dispatch attempt
func (r *notificationLogRepository) Append(ctx context.Context, entry *models.NotificationLog) error {
	query := `
		INSERT INTO notification_log (
			id, kind, equipment_name, equipment_internal_code, subject,
			recipient, recipients, status, error, created_at, sent_at
		) VALUES (
			:id, :kind, :equipment_name, :equipment_internal_code, :subject,
			:recipient, :recipients, :status, :error, :created_at, :sent_at
		)
	`

	row := &notificationLogRow{
		ID:                    entry.ID,
		Kind:                  string(entry.Kind),
		EquipmentName:         entry.EquipmentName,
		EquipmentInternalCode: entry.EquipmentInternalCode,
		Subject:               entry.Subject,
		Recipient:             entry.Recipient,
		Recipients:            pq.StringArray(entry.Recipients),
		Status:                string(entry.Status),
		Error:                 entry.Error,
		CreatedAt:             entry.CreatedAt,
		SentAt:                entry.SentAt,
	}

	_, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to append notification log: %w", err)
	}

	return nil
}

// List retrieves entries newest-first
func (r *notificationLogRepository) List(ctx context.Context, offset, limit int) ([]*models.NotificationLog, error) {
	query := `
		SELECT id, kind, equipment_name, equipment_internal_code, subject,
		       recipient, recipients, status, error, created_at, sent_at
		FROM notification_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []*notificationLogRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification log: %w", err)
	}

	entries := make([]*models.NotificationLog, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}
