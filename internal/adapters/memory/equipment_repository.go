package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// InMemoryEquipmentRepository is an in-memory implementation for testing and
// for running without an external database.
type InMemoryEquipmentRepository struct {
	mu        sync.RWMutex
	equipment map[string]*models.Equipment
}

// NewInMemoryEquipmentRepository creates a new in-memory equipment repository
func NewInMemoryEquipmentRepository() ports.EquipmentRepository {
	return &InMemoryEquipmentRepository{
		equipment: make(map[string]*models.Equipment),
	}
}

func (r *InMemoryEquipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if equip, ok := r.equipment[id]; ok {
		clone := *equip
		return &clone, nil
	}
	return nil, models.ErrNotFound
}

func (r *InMemoryEquipmentRepository) GetByInternalCode(ctx context.Context, code string) (*models.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, equip := range r.equipment {
		if equip.InternalCode == code {
			clone := *equip
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *InMemoryEquipmentRepository) GetByFieldToken(ctx context.Context, token string) (*models.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, equip := range r.equipment {
		if equip.FieldToken == token {
			clone := *equip
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *InMemoryEquipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.equipment[equipment.ID]; exists {
		return models.ErrDuplicateCode
	}
	for _, equip := range r.equipment {
		if equip.InternalCode == equipment.InternalCode {
			return models.ErrDuplicateCode
		}
	}

	clone := *equipment
	r.equipment[equipment.ID] = &clone
	return nil
}

func (r *InMemoryEquipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.equipment[equipment.ID]; !exists {
		return models.ErrNotFound
	}

	clone := *equipment
	r.equipment[equipment.ID] = &clone
	return nil
}

func (r *InMemoryEquipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Equipment, 0, len(r.equipment))
	for _, equip := range r.equipment {
		clone := *equip
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Instrument < result[j].Instrument
	})
	return result, nil
}
