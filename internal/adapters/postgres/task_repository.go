package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// taskRepository implements the TaskRepository interface using PostgreSQL
type taskRepository struct {
	db dbExecutor
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(db dbExecutor) ports.TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `
	id, equipment_id, action, category, priority, status,
	scheduled_date, completion_date, responsible, performing_user,
	description, created_at, updated_at
`

// GetByID retrieves a task by identifier
func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.MaintenanceTask, error) {
	query := `SELECT ` + taskColumns + ` FROM maintenance_task WHERE id = $1`

	var task models.MaintenanceTask
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// Create adds a new task record
func (r *taskRepository) Create(ctx context.Context, task *models.MaintenanceTask) error {
	query := `
		INSERT INTO maintenance_task (
			id, equipment_id, action, category, priority, status,
			scheduled_date, completion_date, responsible, performing_user,
			description, created_at, updated_at
		) VALUES (
			:id, :equipment_id, :action, :category, :priority, :status,
			:scheduled_date, :completion_date, :responsible, :performing_user,
			:description, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// Update updates an existing task record
func (r *taskRepository) Update(ctx context.Context, task *models.MaintenanceTask) error {
	query := `
		UPDATE maintenance_task
		SET status = :status,
		    completion_date = :completion_date,
		    responsible = :responsible,
		    description = :description,
		    updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
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

// ListForEquipment retrieves tasks for one equipment unit, newest first
func (r *taskRepository) ListForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM maintenance_task
		WHERE equipment_id = $1
		ORDER BY scheduled_date DESC
	`

	var tasks []*models.MaintenanceTask
	err := r.db.SelectContext(ctx, &tasks, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for equipment: %w", err)
	}

	return tasks, nil
}

// ListAll retrieves every task; used by the sweep
func (r *taskRepository) ListAll(ctx context.Context) ([]*models.MaintenanceTask, error) {
	query := `SELECT ` + taskColumns + ` FROM maintenance_task ORDER BY scheduled_date DESC`

	var tasks []*models.MaintenanceTask
	err := r.db.SelectContext(ctx, &tasks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}
