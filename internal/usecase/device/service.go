package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainDevice "security-monitor/internal/domain/device"
	domainEvent "security-monitor/internal/domain/event"
	"security-monitor/internal/logger"
	eventUsecase "security-monitor/internal/usecase/event"
	appErrors "security-monitor/pkg/errors"
	"security-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LowBatteryThreshold is the battery percentage below which a battery_low
// event is appended alongside the status change.
const LowBatteryThreshold = 10

// Notifier pushes a message to every live subscriber. Delivery is best-effort
// and never returns an error to the caller.
type Notifier interface {
	Broadcast(message interface{})
}

// Service owns the device lifecycle and the trigger orchestration.
type Service struct {
	deviceRepo domainDevice.Repository
	eventRepo  domainEvent.Repository
	notifier   Notifier

	// Serializes concurrent triggers per device id so two reports for the
	// same device cannot race a lost update past the store. Entries are never
	// reclaimed; the device population is small and bounded.
	deviceLocks sync.Map
}

func NewService(deviceRepo domainDevice.Repository, eventRepo domainEvent.Repository, notifier Notifier) *Service {
	return &Service{
		deviceRepo: deviceRepo,
		eventRepo:  eventRepo,
		notifier:   notifier,
	}
}

func (s *Service) List(ctx context.Context) ([]DeviceResponse, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to list devices", err)
	}

	responses := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		responses[i] = *ToDeviceResponse(d)
	}

	return responses, nil
}

func (s *Service) Get(ctx context.Context, deviceID uuid.UUID) (*DeviceResponse, error) {
	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	return ToDeviceResponse(d), nil
}

func (s *Service) Create(ctx context.Context, req *CreateDeviceRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	status := domainDevice.StatusClosed
	if req.Status != nil {
		parsed, err := domainDevice.ParseStatus(*req.Status)
		if err != nil {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidArgument, "Status is invalid", err)
		}
		status = parsed
	}

	battery := 100
	if req.Battery != nil {
		battery = *req.Battery
	}

	d := &domainDevice.Device{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		Status:   status,
		Battery:  battery,
	}

	if err := s.deviceRepo.Create(ctx, d); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to create device", err)
	}

	logger.Info("Device created",
		zap.String("device_id", d.ID.String()),
		zap.String("name", d.Name),
		zap.String("type", d.Type),
	)

	response := ToDeviceResponse(d)
	s.notifier.Broadcast(DeviceAddedMessage{Type: "device_added", Device: response})

	return response, nil
}

// Update applies a sparse partial update: only fields present in the request
// are touched. LastUpdated is refreshed server-side when status or battery
// changes; LastSeen is only moved by the trigger and heartbeat paths.
func (s *Service) Update(ctx context.Context, deviceID uuid.UUID, req *UpdateDeviceRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	mu := s.lockDevice(deviceID)
	defer mu.Unlock()

	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Type != nil {
		d.Type = *req.Type
	}
	if req.Location != nil {
		d.Location = *req.Location
	}

	stateChanged := false
	if req.Status != nil {
		parsed, err := domainDevice.ParseStatus(*req.Status)
		if err != nil {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidArgument, "Status is invalid", err)
		}
		d.Status = parsed
		stateChanged = true
	}
	if req.Battery != nil {
		d.Battery = *req.Battery
		stateChanged = true
	}
	if stateChanged {
		d.LastUpdated = time.Now()
	}

	if err := s.deviceRepo.Update(ctx, d); err != nil {
		if err == domainDevice.ErrDeviceNotFound {
			return nil, err
		}
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to update device", err)
	}

	logger.Info("Device updated",
		zap.String("device_id", deviceID.String()),
	)

	response := ToDeviceResponse(d)
	s.notifier.Broadcast(DeviceUpdatedMessage{Type: "device_updated", Device: response})

	return response, nil
}

// Delete removes the device and reports whether it existed. Events keep their
// device_id reference; they are not purged.
func (s *Service) Delete(ctx context.Context, deviceID uuid.UUID) (bool, error) {
	existed, err := s.deviceRepo.Delete(ctx, deviceID)
	if err != nil {
		return false, appErrors.NewAppError(appErrors.CodeStorage, "Failed to delete device", err)
	}

	if existed {
		logger.Info("Device deleted",
			zap.String("device_id", deviceID.String()),
		)
		s.notifier.Broadcast(DeviceDeletedMessage{Type: "device_deleted", DeviceID: deviceID})
	}

	return existed, nil
}

// Touch refreshes only the device's activity timestamp (heartbeat path).
func (s *Service) Touch(ctx context.Context, deviceID uuid.UUID) error {
	return s.deviceRepo.UpdateLastSeen(ctx, deviceID)
}

// Trigger orchestrates one state-change report from a device: resolve,
// validate, persist, append event(s), broadcast. The device write is durably
// committed before the event append, which is committed before the broadcast.
func (s *Service) Trigger(ctx context.Context, deviceID uuid.UUID, req *TriggerRequest) (*TriggerResponse, error) {
	mu := s.lockDevice(deviceID)
	defer mu.Unlock()

	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	newStatus, err := domainDevice.ParseStatus(req.NewStatus)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidArgument, "Status is invalid", err)
	}

	if req.Battery != nil && (*req.Battery < 0 || *req.Battery > 100) {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidArgument, "Battery must be between 0 and 100", domainDevice.ErrInvalidBattery)
	}

	oldStatus := d.Status
	now := time.Now()
	d.Status = newStatus
	if req.Battery != nil {
		d.Battery = *req.Battery
	}
	d.LastUpdated = now
	d.LastSeen = now

	if err := s.deviceRepo.Update(ctx, d); err != nil {
		if err == domainDevice.ErrDeviceNotFound {
			return nil, err
		}
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to update device", err)
	}

	details := fmt.Sprintf("status changed to %s", newStatus)
	if req.Battery != nil {
		details += fmt.Sprintf(" (battery: %d%%)", *req.Battery)
	}

	e := &domainEvent.Event{
		DeviceID: deviceID,
		Type:     domainEvent.TypeStatusChange,
		Details:  details,
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to record event", err)
	}

	if req.Battery != nil && *req.Battery < LowBatteryThreshold {
		logger.Warn("Device battery low",
			zap.String("device_id", deviceID.String()),
			zap.Int("battery", *req.Battery),
		)
		lowBattery := &domainEvent.Event{
			DeviceID: deviceID,
			Type:     domainEvent.TypeBatteryLow,
			Details:  fmt.Sprintf("battery low: %d%%", *req.Battery),
		}
		if err := s.eventRepo.Create(ctx, lowBattery); err != nil {
			return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to record event", err)
		}
	}

	logger.Info("Device triggered",
		zap.String("device_id", deviceID.String()),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)),
	)

	response := &TriggerResponse{
		Device: ToDeviceResponse(d),
		Event:  eventUsecase.ToEventResponse(e),
	}
	s.notifier.Broadcast(DeviceUpdateMessage{
		Type:   "device_update",
		Device: response.Device,
		Event:  response.Event,
	})

	return response, nil
}

func (s *Service) lockDevice(deviceID uuid.UUID) *sync.Mutex {
	v, _ := s.deviceLocks.LoadOrStore(deviceID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}
