package models

import (
	"time"

	"github.com/google/uuid"
)

// EventModel represents the database model for events. DeviceID carries no
// foreign-key constraint: events outlive the devices they reference.
type EventModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DeviceID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(50);not null"`
	Details   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (EventModel) TableName() string {
	return "events"
}
