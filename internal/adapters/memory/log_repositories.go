package memory

import (
	"context"
	"sync"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// InMemoryNotificationLogRepository is an in-memory append-only log
type InMemoryNotificationLogRepository struct {
	mu      sync.RWMutex
	entries []*models.NotificationLog
}

// NewInMemoryNotificationLogRepository creates a new in-memory notification log
func NewInMemoryNotificationLogRepository() ports.NotificationLogRepository {
	return &InMemoryNotificationLogRepository{}
}

func (r *InMemoryNotificationLogRepository) Append(ctx context.Context, entry *models.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	clone.Recipients = append([]string(nil), entry.Recipients...)
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *InMemoryNotificationLogRepository) List(ctx context.Context, offset, limit int) ([]*models.NotificationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Entries are appended in order; newest-first means walking backwards.
	result := make([]*models.NotificationLog, 0, limit)
	for i := len(r.entries) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		clone := *r.entries[i]
		result = append(result, &clone)
	}
	return result, nil
}

// InMemoryActivityLogRepository is an in-memory append-only log
type InMemoryActivityLogRepository struct {
	mu      sync.RWMutex
	entries []*models.ActivityLog
}

// NewInMemoryActivityLogRepository creates a new in-memory activity log
func NewInMemoryActivityLogRepository() ports.ActivityLogRepository {
	return &InMemoryActivityLogRepository{}
}

func (r *InMemoryActivityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *InMemoryActivityLogRepository) List(ctx context.Context, offset, limit int) ([]*models.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.ActivityLog, 0, limit)
	for i := len(r.entries) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		clone := *r.entries[i]
		result = append(result, &clone)
	}
	return result, nil
}
