package event

import (
	"time"

	"github.com/google/uuid"
	domainEvent "security-monitor/internal/domain/event"
)

type EventResponse struct {
	ID        uuid.UUID        `json:"id"`
	DeviceID  uuid.UUID        `json:"device_id"`
	Type      domainEvent.Type `json:"type"`
	Details   string           `json:"details"`
	Timestamp time.Time        `json:"timestamp"`
}

func ToEventResponse(e *domainEvent.Event) *EventResponse {
	if e == nil {
		return nil
	}
	return &EventResponse{
		ID:        e.ID,
		DeviceID:  e.DeviceID,
		Type:      e.Type,
		Details:   e.Details,
		Timestamp: e.Timestamp,
	}
}
