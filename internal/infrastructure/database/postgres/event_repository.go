package postgres

import (
	"context"
	"fmt"
	"time"

	domainEvent "security-monitor/internal/domain/event"
	"security-monitor/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
)

// EventRepository implements domain event.Repository on top of gorm.
// The log is append-only; no update or delete is implemented.
type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) domainEvent.Repository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *domainEvent.Event) error {
	e.ID = uuid.New()
	e.Timestamp = time.Now()

	dbModel := toEventModel(e)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]*domainEvent.Event, error) {
	var dbModels []models.EventModel
	err := r.db.DB.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*domainEvent.Event, len(dbModels))
	for i := range dbModels {
		events[i] = toEventEntity(&dbModels[i])
	}

	return events, nil
}

func toEventModel(e *domainEvent.Event) *models.EventModel {
	return &models.EventModel{
		ID:        e.ID,
		DeviceID:  e.DeviceID,
		Type:      string(e.Type),
		Details:   e.Details,
		Timestamp: e.Timestamp,
	}
}

func toEventEntity(m *models.EventModel) *domainEvent.Event {
	return &domainEvent.Event{
		ID:        m.ID,
		DeviceID:  m.DeviceID,
		Type:      domainEvent.Type(m.Type),
		Details:   m.Details,
		Timestamp: m.Timestamp,
	}
}
