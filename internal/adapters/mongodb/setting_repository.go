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

// settingRepository implements the SettingRepository interface using MongoDB
type settingRepository struct {
	collection *mongo.Collection
}

// NewSettingRepository creates a new MongoDB setting repository
func NewSettingRepository(db *mongo.Database) ports.SettingRepository {
	return &settingRepository{
		collection: db.Collection("notification_setting"),
	}
}

// GetByID retrieves a setting by identifier
func (r *settingRepository) GetByID(ctx context.Context, id string) (*models.NotificationSetting, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByKind retrieves a setting by its rule kind
func (r *settingRepository) GetByKind(ctx context.Context, kind models.RuleKind) (*models.NotificationSetting, error) {
	return r.findOne(ctx, bson.M{"kind": kind})
}

func (r *settingRepository) findOne(ctx context.Context, filter bson.M) (*models.NotificationSetting, error) {
	var setting models.NotificationSetting

	err := r.collection.FindOne(ctx, filter).Decode(&setting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return &setting, nil
}

// Create adds a new setting
func (r *settingRepository) Create(ctx context.Context, setting *models.NotificationSetting) error {
	_, err := r.collection.InsertOne(ctx, setting)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateRuleKind
		}
		return fmt.Errorf("failed to create setting: %w", err)
	}

	return nil
}

// Update updates an existing setting
func (r *settingRepository) Update(ctx context.Context, setting *models.NotificationSetting) error {
	update := bson.M{
		"$set": bson.M{
			"title":          setting.Title,
			"description":    setting.Description,
			"lead_time_days": setting.LeadTimeDays,
			"active":         setting.Active,
			"recipients":     setting.Recipients,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": setting.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List retrieves all settings
func (r *settingRepository) List(ctx context.Context) ([]*models.NotificationSetting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "kind", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []*models.NotificationSetting
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode setting list: %w", err)
	}

	return settings, nil
}

// Count returns the number of stored settings
func (r *settingRepository) Count(ctx context.Context) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count settings: %w", err)
	}
	return int(count), nil
}
