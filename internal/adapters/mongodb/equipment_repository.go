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

// equipmentRepository implements the EquipmentRepository interface using MongoDB
type equipmentRepository struct {
	collection *mongo.Collection
}

// NewEquipmentRepository creates a new MongoDB equipment repository
func NewEquipmentRepository(db *mongo.Database) ports.EquipmentRepository {
	return &equipmentRepository{
		collection: db.Collection("equipment"),
	}
}

// GetByID retrieves an equipment unit by identifier
func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByInternalCode retrieves an equipment unit by its unique internal code
func (r *equipmentRepository) GetByInternalCode(ctx context.Context, code string) (*models.Equipment, error) {
	return r.findOne(ctx, bson.M{"internal_code": code})
}

// GetByFieldToken retrieves an equipment unit by its field-access token
func (r *equipmentRepository) GetByFieldToken(ctx context.Context, token string) (*models.Equipment, error) {
	return r.findOne(ctx, bson.M{"field_token": token})
}

func (r *equipmentRepository) findOne(ctx context.Context, filter bson.M) (*models.Equipment, error) {
	var equipment models.Equipment

	err := r.collection.FindOne(ctx, filter).Decode(&equipment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	return &equipment, nil
}

// Create adds a new equipment record
func (r *equipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	_, err := r.collection.InsertOne(ctx, equipment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create equipment: %w", err)
	}

	return nil
}

// Update updates an existing equipment record
func (r *equipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	update := bson.M{
		"$set": bson.M{
			"instrument":                equipment.Instrument,
			"internal_code":             equipment.InternalCode,
			"brand":                     equipment.Brand,
			"model":                     equipment.Model,
			"serial_number":             equipment.SerialNumber,
			"status":                    equipment.Status,
			"last_external_calibration": equipment.LastExternalCalibration,
			"next_external_calibration": equipment.NextExternalCalibration,
			"periodicity":               equipment.Periodicity,
			"updated_at":                equipment.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": equipment.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("failed to update equipment: %w", err)
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List retrieves all equipment ordered by instrument name
func (r *equipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "instrument", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer cursor.Close(ctx)

	var equipments []*models.Equipment
	if err := cursor.All(ctx, &equipments); err != nil {
		return nil, fmt.Errorf("failed to decode equipment list: %w", err)
	}

	return equipments, nil
}
