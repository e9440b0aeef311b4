package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of something that happened to a device.
// DeviceID is a weak reference: it is not enforced against the devices table
// and survives deletion of the device it points at.
type Event struct {
	ID        uuid.UUID
	DeviceID  uuid.UUID
	Type      Type
	Details   string
	Timestamp time.Time
}

// Type is the closed set of event kinds the system produces.
type Type string

const (
	TypeStatusChange  Type = "status_change"
	TypeDeviceOffline Type = "device_offline"
	TypeBatteryLow    Type = "battery_low"
)
