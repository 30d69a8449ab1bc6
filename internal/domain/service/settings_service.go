package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/pkg/slug"
)

// defaultRecipients receive the seeded built-in rules until an operator
// edits them.
var defaultRecipients = []string{"admin@labwise.com", "supervisor@labwise.com"}

// settingsService manages the notification rule configuration
type settingsService struct {
	settingRepo ports.SettingRepository
	logger      logger.Logger
}

// NewSettingsService creates the notification settings service
func NewSettingsService(settingRepo ports.SettingRepository) ports.SettingsService {
	return &settingsService{
		settingRepo: settingRepo,
		logger:      logger.New("settings-service", ""),
	}
}

// ListSettings retrieves all configured rules
func (s *settingsService) ListSettings(ctx context.Context) ([]*models.NotificationSetting, error) {
	return s.settingRepo.List(ctx)
}

// UpdateSetting saves an edited rule. The kind is immutable; only lead time,
// active flag, recipients, title and description may change.
func (s *settingsService) UpdateSetting(ctx context.Context, setting *models.NotificationSetting) error {
	stored, err := s.settingRepo.GetByID(ctx, setting.ID)
	if err != nil {
		return fmt.Errorf("failed to load setting %s: %w", setting.ID, err)
	}

	setting.Kind = stored.Kind
	if setting.LeadTimeDays < 0 {
		setting.LeadTimeDays = 0
	}

	if err := s.settingRepo.Update(ctx, setting); err != nil {
		return fmt.Errorf("failed to update setting %s: %w", setting.ID, err)
	}

	s.logger.Infow("Notification setting updated", "kind", setting.Kind,
		"active", setting.Active, "lead_time_days", setting.LeadTimeDays,
		"recipients", len(setting.Recipients))

	return nil
}

// CreateCustomSetting creates a user-defined rule whose kind is derived by
// slugifying the title. A slug colliding with any existing kind, built-in or
// custom, is rejected.
func (s *settingsService) CreateCustomSetting(ctx context.Context, title, description string) (*models.NotificationSetting, error) {
	kind := models.RuleKind(slug.Slugify(title))
	if kind == "" {
		return nil, fmt.Errorf("title %q yields an empty rule kind", title)
	}

	existing, err := s.settingRepo.GetByKind(ctx, kind)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check rule kind %s: %w", kind, err)
	}
	if existing != nil {
		return nil, models.ErrDuplicateRuleKind
	}

	setting := &models.NotificationSetting{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: description,
		Active:      true,
		Recipients:  []string{},
	}

	if err := s.settingRepo.Create(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to create setting: %w", err)
	}

	s.logger.Infow("Custom notification rule created", "kind", kind, "title", title)

	return setting, nil
}

// SeedDefaults creates the four built-in rules on an empty settings store.
// Any existing settings make it a no-op, so partial manual edits survive
// restarts untouched.
func (s *settingsService) SeedDefaults(ctx context.Context) error {
	count, err := s.settingRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count settings: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []*models.NotificationSetting{
		{
			ID:           uuid.NewString(),
			Kind:         models.RuleKindCalibrationDue,
			Title:        "Calibración Próxima a Vencer",
			Description:  "Avisa cuando la calibración externa de un equipo está por vencer",
			LeadTimeDays: 7,
			Active:       true,
			Recipients:   defaultRecipients,
		},
		{
			ID:           uuid.NewString(),
			Kind:         models.RuleKindMaintenanceReminder,
			Title:        "Recordatorio de Mantenimiento",
			Description:  "Recuerda los mantenimientos programados pendientes",
			LeadTimeDays: 3,
			Active:       true,
			Recipients:   defaultRecipients,
		},
		{
			ID:          uuid.NewString(),
			Kind:        models.RuleKindMaintenanceCompleted,
			Title:       "Mantenimiento Completado",
			Description: "Notifica cuando un mantenimiento se marca como completado",
			Active:      true,
			Recipients:  defaultRecipients,
		},
		{
			ID:          uuid.NewString(),
			Kind:        models.RuleKindMaintenanceOverdue,
			Title:       "Mantenimiento Vencido",
			Description: "Avisa cuando un mantenimiento programado quedó vencido",
			Active:      true,
			Recipients:  defaultRecipients,
		},
	}

	for _, setting := range defaults {
		if err := s.settingRepo.Create(ctx, setting); err != nil {
			return fmt.Errorf("failed to seed %s: %w", setting.Kind, err)
		}
	}

	s.logger.Infow("Seeded default notification rules", "count", len(defaults))

	return nil
}
