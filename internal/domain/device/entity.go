package device

import (
	"time"

	"github.com/google/uuid"
)

// Device represents a monitored security sensor (door or window contact).
type Device struct {
	ID          uuid.UUID
	Name        string
	Type        string
	Location    string
	Status      Status
	Battery     int
	LastUpdated time.Time
	LastSeen    time.Time
	CreatedAt   time.Time
}

// Status is the closed set of device states.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusOffline Status = "offline"
)

// ParseStatus maps a raw string onto the status enumeration.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusClosed:
		return StatusClosed, nil
	case StatusOffline:
		return StatusOffline, nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsValid reports whether the status is one of the enumerated values.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusOffline:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
