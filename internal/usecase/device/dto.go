package device

import (
	"time"

	domainDevice "security-monitor/internal/domain/device"
	eventUsecase "security-monitor/internal/usecase/event"

	"github.com/google/uuid"
)

type CreateDeviceRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Type     string  `json:"type" validate:"required,min=1,max=50"`
	Location string  `json:"location" validate:"required,min=1,max=255"`
	Battery  *int    `json:"battery" validate:"omitempty,min=0,max=100"`
	Status   *string `json:"status" validate:"omitempty,oneof=open closed offline"`
}

type UpdateDeviceRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Type     *string `json:"type" validate:"omitempty,min=1,max=50"`
	Location *string `json:"location" validate:"omitempty,min=1,max=255"`
	Status   *string `json:"status" validate:"omitempty,oneof=open closed offline"`
	Battery  *int    `json:"battery" validate:"omitempty,min=0,max=100"`
}

type TriggerRequest struct {
	NewStatus string `json:"new_status"`
	Battery   *int   `json:"battery"`
}

type DeviceResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	Location    string              `json:"location"`
	Status      domainDevice.Status `json:"status"`
	Battery     int                 `json:"battery"`
	LastUpdated time.Time           `json:"last_updated"`
	LastSeen    time.Time           `json:"last_seen"`
	CreatedAt   time.Time           `json:"created_at"`
}

type TriggerResponse struct {
	Device *DeviceResponse             `json:"device"`
	Event  *eventUsecase.EventResponse `json:"event"`
}

// Broadcast payloads pushed through the notification hub. The Type field is
// the envelope discriminator subscribers switch on.

type DeviceAddedMessage struct {
	Type   string          `json:"type"`
	Device *DeviceResponse `json:"device"`
}

type DeviceUpdatedMessage struct {
	Type   string          `json:"type"`
	Device *DeviceResponse `json:"device"`
}

type DeviceDeletedMessage struct {
	Type     string    `json:"type"`
	DeviceID uuid.UUID `json:"device_id"`
}

type DeviceUpdateMessage struct {
	Type   string                      `json:"type"`
	Device *DeviceResponse             `json:"device"`
	Event  *eventUsecase.EventResponse `json:"event"`
}

func ToDeviceResponse(d *domainDevice.Device) *DeviceResponse {
	if d == nil {
		return nil
	}
	return &DeviceResponse{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Location:    d.Location,
		Status:      d.Status,
		Battery:     d.Battery,
		LastUpdated: d.LastUpdated,
		LastSeen:    d.LastSeen,
		CreatedAt:   d.CreatedAt,
	}
}
