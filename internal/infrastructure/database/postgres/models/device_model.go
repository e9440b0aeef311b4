package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel represents the database model for devices.
type DeviceModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Type        string    `gorm:"type:varchar(50);not null"`
	Location    string    `gorm:"type:varchar(255);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'closed'"`
	Battery     int       `gorm:"type:integer;not null;default:100"`
	LastUpdated time.Time `gorm:"not null"`
	LastSeen    time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (DeviceModel) TableName() string {
	return "devices"
}
