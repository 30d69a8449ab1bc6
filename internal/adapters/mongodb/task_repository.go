package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskRepository implements the TaskRepository interface using MongoDB
type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new MongoDB task repository
func NewTaskRepository(db *mongo.Database) ports.TaskRepository {
	return &taskRepository{
		collection: db.Collection("maintenance_task"),
	}
}

// GetByID retrieves a task by identifier
func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.MaintenanceTask, error) {
	var task models.MaintenanceTask

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// Create adds a new task record
func (r *taskRepository) Create(ctx context.Context, task *models.MaintenanceTask) error {
	_, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// Update updates an existing task record
func (r *taskRepository) Update(ctx context.Context, task *models.MaintenanceTask) error {
	update := bson.M{
		"$set": bson.M{
			"status":          task.Status,
			"completion_date": task.CompletionDate,
			"responsible":     task.Responsible,
			"description":     task.Description,
			"updated_at":      task.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListForEquipment retrieves tasks for one equipment unit, newest first
func (r *taskRepository) ListForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceTask, error) {
	return r.list(ctx, bson.M{"equipment_id": equipmentID})
}

// ListAll retrieves every task; used by the sweep
func (r *taskRepository) ListAll(ctx context.Context) ([]*models.MaintenanceTask, error) {
	return r.list(ctx, bson.M{})
}

func (r *taskRepository) list(ctx context.Context, filter bson.M) ([]*models.MaintenanceTask, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*models.MaintenanceTask
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}

	return tasks, nil
}
