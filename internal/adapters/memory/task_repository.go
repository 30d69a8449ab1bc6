package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// InMemoryTaskRepository is an in-memory implementation for testing
type InMemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.MaintenanceTask
}

// NewInMemoryTaskRepository creates a new in-memory task repository
func NewInMemoryTaskRepository() ports.TaskRepository {
	return &InMemoryTaskRepository{
		tasks: make(map[string]*models.MaintenanceTask),
	}
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id string) (*models.MaintenanceTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if task, ok := r.tasks[id]; ok {
		clone := *task
		return &clone, nil
	}
	return nil, models.ErrNotFound
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *models.MaintenanceTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *InMemoryTaskRepository) Update(ctx context.Context, task *models.MaintenanceTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; !exists {
		return models.ErrNotFound
	}

	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *InMemoryTaskRepository) ListForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.MaintenanceTask, 0)
	for _, task := range r.tasks {
		if task.EquipmentID == equipmentID {
			clone := *task
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledDate.After(result[j].ScheduledDate)
	})
	return result, nil
}

func (r *InMemoryTaskRepository) ListAll(ctx context.Context) ([]*models.MaintenanceTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.MaintenanceTask, 0, len(r.tasks))
	for _, task := range r.tasks {
		clone := *task
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledDate.After(result[j].ScheduledDate)
	})
	return result, nil
}
