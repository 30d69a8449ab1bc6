package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/lib/pq"
)

// settingRepository implements the SettingRepository interface using PostgreSQL
type settingRepository struct {
	db dbExecutor
}

// NewSettingRepository creates a new PostgreSQL setting repository
func NewSettingRepository(db dbExecutor) ports.SettingRepository {
	return &settingRepository{db: db}
}

// settingRow mirrors the notification_setting table; recipients is a text
// array column that the domain model keeps as a plain slice.
type settingRow struct {
	ID           string         `db:"id"`
	Kind         string         `db:"kind"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	LeadTimeDays int            `db:"lead_time_days"`
	Active       bool           `db:"active"`
	Recipients   pq.StringArray `db:"recipients"`
}

func (row *settingRow) toModel() *models.NotificationSetting {
	return &models.NotificationSetting{
		ID:           row.ID,
		Kind:         models.RuleKind(row.Kind),
		Title:        row.Title,
		Description:  row.Description,
		LeadTimeDays: row.LeadTimeDays,
		Active:       row.Active,
		Recipients:   []string(row.Recipients),
	}
}

func settingToRow(setting *models.NotificationSetting) *settingRow {
	return &settingRow{
		ID:           setting.ID,
		Kind:         string(setting.Kind),
		Title:        setting.Title,
		Description:  setting.Description,
		LeadTimeDays: setting.LeadTimeDays,
		Active:       setting.Active,
		Recipients:   pq.StringArray(setting.Recipients),
	}
}

const settingColumns = `id, kind, title, description, lead_time_days, active, recipients`

// GetByID retrieves a setting by identifier
func (r *settingRepository) GetByID(ctx context.Context, id string) (*models.NotificationSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM notification_setting WHERE id = $1`

	var row settingRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return row.toModel(), nil
}

// GetByKind retrieves a setting by its rule kind
func (r *settingRepository) GetByKind(ctx context.Context, kind models.RuleKind) (*models.NotificationSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM notification_setting WHERE kind = $1`

	var row settingRow
	err := r.db.GetContext(ctx, &row, query, string(kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting by kind: %w", err)
	}

	return row.toModel(), nil
}

// Create adds a new setting
func (r *settingRepository) Create(ctx context.Context, setting *models.NotificationSetting) error {
	query := `
		INSERT INTO notification_setting (
			id, kind, title, description, lead_time_days, active, recipients
		) VALUES (
			:id, :kind, :title, :description, :lead_time_days, :active, :recipients
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, settingToRow(setting))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateRuleKind
		}
		return fmt.Errorf("failed to create setting: %w", err)
	}

	return nil
}

// Update updates an existing setting
func (r *settingRepository) Update(ctx context.Context, setting *models.NotificationSetting) error {
	query := `
		UPDATE notification_setting
		SET title = :title,
		    description = :description,
		    lead_time_days = :lead_time_days,
		    active = :active,
		    recipients = :recipients
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, settingToRow(setting))
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List retrieves all settings
func (r *settingRepository) List(ctx context.Context) ([]*models.NotificationSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM notification_setting ORDER BY kind ASC`

	var rows []*settingRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	settings := make([]*models.NotificationSetting, 0, len(rows))
	for _, row := range rows {
		settings = append(settings, row.toModel())
	}
	return settings, nil
}

// Count returns the number of stored settings
func (r *settingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notification_setting`)
	if err != nil {
		return 0, fmt.Errorf("failed to count settings: %w", err)
	}
	return count, nil
}
