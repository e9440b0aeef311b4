package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainDevice "security-monitor/internal/domain/device"
	"security-monitor/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceRepository implements domain device.Repository on top of gorm.
type DeviceRepository struct {
	db *DB
}

func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *domainDevice.Device) error {
	now := time.Now()
	d.ID = uuid.New()
	d.CreatedAt = now
	d.LastUpdated = now
	d.LastSeen = now

	dbModel := toDeviceModel(d)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", deviceID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) List(ctx context.Context) ([]*domainDevice.Device, error) {
	var dbModels []models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]*domainDevice.Device, len(dbModels))
	for i := range dbModels {
		devices[i] = toDeviceEntity(&dbModels[i])
	}

	return devices, nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *domainDevice.Device) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"name":         d.Name,
			"type":         d.Type,
			"location":     d.Location,
			"status":       string(d.Status),
			"battery":      d.Battery,
			"last_updated": d.LastUpdated,
			"last_seen":    d.LastSeen,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, deviceID uuid.UUID) (bool, error) {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", deviceID).
		Delete(&models.DeviceModel{})

	if result.Error != nil {
		return false, fmt.Errorf("failed to delete device: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *DeviceRepository) UpdateLastSeen(ctx context.Context, deviceID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", deviceID).
		Update("last_seen", time.Now())

	if result.Error != nil {
		return fmt.Errorf("failed to update last seen: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) TransitionOffline(ctx context.Context, cutoff time.Time) ([]*domainDevice.Device, error) {
	var dbModels []models.DeviceModel

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("last_seen < ? AND status != ?", cutoff, string(domainDevice.StatusOffline)).
			Find(&dbModels).Error; err != nil {
			return fmt.Errorf("failed to query stale devices: %w", err)
		}

		if len(dbModels) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(dbModels))
		for i := range dbModels {
			ids[i] = dbModels[i].ID
		}

		// LastSeen is deliberately untouched here: only real device activity
		// moves it forward.
		if err := tx.
			Model(&models.DeviceModel{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":       string(domainDevice.StatusOffline),
				"last_updated": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to mark devices offline: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	devices := make([]*domainDevice.Device, len(dbModels))
	for i := range dbModels {
		entity := toDeviceEntity(&dbModels[i])
		entity.Status = domainDevice.StatusOffline
		devices[i] = entity
	}

	return devices, nil
}

// Helper functions to convert between domain entities and database models

func toDeviceModel(d *domainDevice.Device) *models.DeviceModel {
	return &models.DeviceModel{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Location:    d.Location,
		Status:      string(d.Status),
		Battery:     d.Battery,
		LastUpdated: d.LastUpdated,
		LastSeen:    d.LastSeen,
		CreatedAt:   d.CreatedAt,
	}
}

func toDeviceEntity(m *models.DeviceModel) *domainDevice.Device {
	return &domainDevice.Device{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type,
		Location:    m.Location,
		Status:      domainDevice.Status(m.Status),
		Battery:     m.Battery,
		LastUpdated: m.LastUpdated,
		LastSeen:    m.LastSeen,
		CreatedAt:   m.CreatedAt,
	}
}
