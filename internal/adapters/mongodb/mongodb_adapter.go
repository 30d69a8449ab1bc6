package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/labwise/labwise/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBAdapter implements the DatabaseAdapter interface for MongoDB
type MongoDBAdapter struct {
	client              *mongo.Client
	db                  *mongo.Database
	config              *ports.MongoDBConfig
	equipmentRepo       ports.EquipmentRepository
	taskRepo            ports.TaskRepository
	settingRepo         ports.SettingRepository
	notificationLogRepo ports.NotificationLogRepository
	activityLogRepo     ports.ActivityLogRepository
}

// NewMongoDBAdapter creates a new MongoDB database adapter
func NewMongoDBAdapter(config *ports.MongoDBConfig) *MongoDBAdapter {
	return &MongoDBAdapter{
		config: config,
	}
}

// Connect establishes a connection to the MongoDB database
func (a *MongoDBAdapter) Connect(ctx context.Context) error {
	clientOpts := options.Client().ApplyURI(a.config.URI)

	// Configure connection pool
	if a.config.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(uint64(a.config.MaxPoolSize))
	}
	if a.config.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(uint64(a.config.MinPoolSize))
	}
	if a.config.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(time.Duration(a.config.MaxConnIdleTime) * time.Second)
	}
	if a.config.ServerTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(time.Duration(a.config.ServerTimeout) * time.Second)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	a.client = client
	a.db = client.Database(a.config.Database)

	// Initialize repositories
	a.equipmentRepo = NewEquipmentRepository(a.db)
	a.taskRepo = NewTaskRepository(a.db)
	a.settingRepo = NewSettingRepository(a.db)
	a.notificationLogRepo = NewNotificationLogRepository(a.db)
	a.activityLogRepo = NewActivityLogRepository(a.db)

	// Create indexes
	if err = a.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates the unique and query indexes used by the repositories
func (a *MongoDBAdapter) createIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "equipment",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "internal_code", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "field_token", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "next_external_calibration", Value: 1}}},
			},
		},
		{
			collection: "maintenance_task",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "equipment_id", Value: 1}}},
				{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduled_date", Value: 1}}},
			},
		},
		{
			collection: "notification_setting",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "kind", Value: 1}}, Options: unique},
			},
		},
		{
			collection: "notification_log",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "kind", Value: 1}}},
			},
		},
		{
			collection: "activity_log",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "timestamp", Value: -1}}},
				{Keys: bson.D{{Key: "action", Value: 1}}},
			},
		},
	}

	for _, idx := range indexes {
		if _, err := a.db.Collection(idx.collection).Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", idx.collection, err)
		}
	}

	return nil
}

// Disconnect closes the database connection
func (a *MongoDBAdapter) Disconnect(ctx context.Context) error {
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks if the database connection is alive
func (a *MongoDBAdapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return fmt.Errorf("database not connected")
	}
	return a.client.Ping(ctx, nil)
}

// GetType returns the database type
func (a *MongoDBAdapter) GetType() ports.DatabaseType {
	return ports.DatabaseTypeMongoDB
}

// GetEquipmentRepository returns the equipment repository
func (a *MongoDBAdapter) GetEquipmentRepository() ports.EquipmentRepository {
	return a.equipmentRepo
}

// GetTaskRepository returns the task repository
func (a *MongoDBAdapter) GetTaskRepository() ports.TaskRepository {
	return a.taskRepo
}

// GetSettingRepository returns the notification setting repository
func (a *MongoDBAdapter) GetSettingRepository() ports.SettingRepository {
	return a.settingRepo
}

// GetNotificationLogRepository returns the notification log repository
func (a *MongoDBAdapter) GetNotificationLogRepository() ports.NotificationLogRepository {
	return a.notificationLogRepo
}

// GetActivityLogRepository returns the activity log repository
func (a *MongoDBAdapter) GetActivityLogRepository() ports.ActivityLogRepository {
	return a.activityLogRepo
}
