package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notificationLogRepository implements the append-only notification log using MongoDB
type notificationLogRepository struct {
	collection *mongo.Collection
}

// NewNotificationLogRepository creates a new MongoDB notification log repository
func NewNotificationLogRepository(db *mongo.Database) ports.NotificationLogRepository {
	return &notificationLogRepository{
		collection: db.Collection("notification_log"),
	}
}

// Append records one dispatch attempt
func (r *notificationLogRepository) Append(ctx context.Context, entry *models.NotificationLog) error {
	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append notification log: %w", err)
	}
	return nil
}

// List retrieves entries newest-first
func (r *notificationLogRepository) List(ctx context.Context, offset, limit int) ([]*models.NotificationLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification log: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.NotificationLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode notification log: %w", err)
	}

	return entries, nil
}

// activityLogRepository implements the append-only activity log using MongoDB
type activityLogRepository struct {
	collection *mongo.Collection
}

// NewActivityLogRepository creates a new MongoDB activity log repository
func NewActivityLogRepository(db *mongo.Database) ports.ActivityLogRepository {
	return &activityLogRepository{
		collection: db.Collection("activity_log"),
	}
}

// activityLogDoc stores the typed detail payload as a nested document; the
// action field is the union tag used to rebuild it on reads.
type activityLogDoc struct {
	ID          string    `bson:"_id"`
	Timestamp   time.Time `bson:"timestamp"`
	Actor       string    `bson:"actor"`
	Action      string    `bson:"action"`
	Description string    `bson:"description"`
	Detail      bson.M    `bson:"detail,omitempty"`
}

// Append records one activity entry
func (r *activityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	doc := activityLogDoc{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		Actor:       entry.Actor,
		Action:      string(entry.Action),
		Description: entry.Description,
	}

	if entry.Detail != nil {
		raw, err := json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal activity detail: %w", err)
		}
		var detail bson.M
		if err := bson.UnmarshalExtJSON(raw, false, &detail); err != nil {
			return fmt.Errorf("failed to convert activity detail: %w", err)
		}
		doc.Detail = detail
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// List retrieves entries newest-first
func (r *activityLogRepository) List(ctx context.Context, offset, limit int) ([]*models.ActivityLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityLogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode activity log: %w", err)
	}

	entries := make([]*models.ActivityLog, 0, len(docs))
	for _, doc := range docs {
		entry := &models.ActivityLog{
			ID:          doc.ID,
			Timestamp:   doc.Timestamp,
			Actor:       doc.Actor,
			Action:      models.ActivityAction(doc.Action),
			Description: doc.Description,
		}
		if doc.Detail != nil {
			raw, err := json.Marshal(doc.Detail)
			if err != nil {
				return nil, fmt.Errorf("failed to re-encode activity detail %s: %w", doc.ID, err)
			}
			detail, err := models.DecodeActivityDetail(entry.Action, raw)
			if err != nil {
				return nil, fmt.Errorf("failed to decode activity detail %s: %w", doc.ID, err)
			}
			entry.Detail = detail
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
