package service

import (
	"context"
	"testing"

	"github.com/labwise/labwise/internal/adapters/memory"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaults(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)

	require.NoError(t, service.SeedDefaults(context.Background()))

	settings, err := service.ListSettings(context.Background())
	require.NoError(t, err)
	require.Len(t, settings, 4)

	byKind := make(map[models.RuleKind]*models.NotificationSetting, len(settings))
	for _, s := range settings {
		byKind[s.Kind] = s
	}

	for _, kind := range models.BuiltinRuleKinds {
		setting, ok := byKind[kind]
		require.True(t, ok, "missing seeded rule %s", kind)
		assert.True(t, setting.Active)
		assert.NotEmpty(t, setting.Recipients)
	}

	assert.Equal(t, 7, byKind[models.RuleKindCalibrationDue].LeadTimeDays)
	assert.Equal(t, 3, byKind[models.RuleKindMaintenanceReminder].LeadTimeDays)
	assert.Equal(t, 0, byKind[models.RuleKindMaintenanceCompleted].LeadTimeDays)
	assert.Equal(t, 0, byKind[models.RuleKindMaintenanceOverdue].LeadTimeDays)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)

	require.NoError(t, service.SeedDefaults(context.Background()))

	// An operator edit between restarts must survive reseeding.
	settings, err := service.ListSettings(context.Background())
	require.NoError(t, err)
	edited := settings[0]
	edited.LeadTimeDays = 30
	require.NoError(t, repo.Update(context.Background(), edited))

	require.NoError(t, service.SeedDefaults(context.Background()))

	after, err := service.ListSettings(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 4)

	reloaded, err := repo.GetByID(context.Background(), edited.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, reloaded.LeadTimeDays)
}

func TestSeedDefaultsSkipsNonEmptyStore(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)

	require.NoError(t, repo.Create(context.Background(), &models.NotificationSetting{
		ID:   "custom-1",
		Kind: models.RuleKind("alerta_propia"),
	}))

	require.NoError(t, service.SeedDefaults(context.Background()))

	settings, err := service.ListSettings(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, 1)
}

func TestCreateCustomSetting(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)

	setting, err := service.CreateCustomSetting(context.Background(), "Alerta de Humedad", "Avisa cuando la humedad sale de rango")
	require.NoError(t, err)

	assert.Equal(t, models.RuleKind("alerta_de_humedad"), setting.Kind)
	assert.True(t, setting.Active)
	assert.Empty(t, setting.Recipients)
	assert.False(t, setting.CanFire())
}

func TestCreateCustomSettingKindCollision(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)
	require.NoError(t, service.SeedDefaults(context.Background()))

	// Different titles slugging to the same kind collide.
	_, err := service.CreateCustomSetting(context.Background(), "Alerta Nueva", "")
	require.NoError(t, err)

	_, err = service.CreateCustomSetting(context.Background(), "ALERTA   NUEVA!", "")
	assert.ErrorIs(t, err, models.ErrDuplicateRuleKind)

	// Colliding with a built-in kind is rejected the same way.
	_, err = service.CreateCustomSetting(context.Background(), "Maintenance Overdue", "")
	assert.ErrorIs(t, err, models.ErrDuplicateRuleKind)
}

func TestCreateCustomSettingEmptySlug(t *testing.T) {
	service := NewSettingsService(memory.NewInMemorySettingRepository())

	_, err := service.CreateCustomSetting(context.Background(), "!!!", "")
	assert.Error(t, err)
}

func TestUpdateSettingKindImmutable(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)
	require.NoError(t, service.SeedDefaults(context.Background()))

	settings, err := service.ListSettings(context.Background())
	require.NoError(t, err)

	var target *models.NotificationSetting
	for _, s := range settings {
		if s.Kind == models.RuleKindCalibrationDue {
			target = s
		}
	}
	require.NotNil(t, target)

	target.Kind = models.RuleKind("renamed")
	target.LeadTimeDays = 14
	target.Recipients = []string{"quality@example.com"}
	require.NoError(t, service.UpdateSetting(context.Background(), target))

	reloaded, err := repo.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RuleKindCalibrationDue, reloaded.Kind)
	assert.Equal(t, 14, reloaded.LeadTimeDays)
	assert.Equal(t, []string{"quality@example.com"}, reloaded.Recipients)
}

func TestUpdateSettingClampsNegativeLeadTime(t *testing.T) {
	repo := memory.NewInMemorySettingRepository()
	service := NewSettingsService(repo)
	require.NoError(t, service.SeedDefaults(context.Background()))

	settings, err := service.ListSettings(context.Background())
	require.NoError(t, err)

	target := settings[0]
	target.LeadTimeDays = -5
	require.NoError(t, service.UpdateSetting(context.Background(), target))

	reloaded, err := repo.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.LeadTimeDays)
}

func TestUpdateSettingUnknownID(t *testing.T) {
	service := NewSettingsService(memory.NewInMemorySettingRepository())

	err := service.UpdateSetting(context.Background(), &models.NotificationSetting{ID: "missing"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
