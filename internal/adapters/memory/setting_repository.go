package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// InMemorySettingRepository is an in-memory implementation for testing
type InMemorySettingRepository struct {
	mu       sync.RWMutex
	settings map[string]*models.NotificationSetting
}

// NewInMemorySettingRepository creates a new in-memory setting repository
func NewInMemorySettingRepository() ports.SettingRepository {
	return &InMemorySettingRepository{
		settings: make(map[string]*models.NotificationSetting),
	}
}

func (r *InMemorySettingRepository) GetByID(ctx context.Context, id string) (*models.NotificationSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if setting, ok := r.settings[id]; ok {
		return cloneSetting(setting), nil
	}
	return nil, models.ErrNotFound
}

func (r *InMemorySettingRepository) GetByKind(ctx context.Context, kind models.RuleKind) (*models.NotificationSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, setting := range r.settings {
		if setting.Kind == kind {
			return cloneSetting(setting), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *InMemorySettingRepository) Create(ctx context.Context, setting *models.NotificationSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.settings {
		if existing.Kind == setting.Kind {
			return models.ErrDuplicateRuleKind
		}
	}

	r.settings[setting.ID] = cloneSetting(setting)
	return nil
}

func (r *InMemorySettingRepository) Update(ctx context.Context, setting *models.NotificationSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.settings[setting.ID]; !exists {
		return models.ErrNotFound
	}

	r.settings[setting.ID] = cloneSetting(setting)
	return nil
}

func (r *InMemorySettingRepository) List(ctx context.Context) ([]*models.NotificationSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.NotificationSetting, 0, len(r.settings))
	for _, setting := range r.settings {
		result = append(result, cloneSetting(setting))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})
	return result, nil
}

func (r *InMemorySettingRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.settings), nil
}

func cloneSetting(setting *models.NotificationSetting) *models.NotificationSetting {
	clone := *setting
	clone.Recipients = append([]string(nil), setting.Recipients...)
	return &clone
}
