package monitor

import (
	"context"
	"fmt"
	"time"

	domainDevice "security-monitor/internal/domain/device"
	domainEvent "security-monitor/internal/domain/event"
	"security-monitor/internal/logger"
	deviceUsecase "security-monitor/internal/usecase/device"

	"go.uber.org/zap"
)

// Notifier pushes messages to live subscribers.
type Notifier interface {
	Broadcast(message interface{})
}

// DeviceOfflineMessage is broadcast for every device the sweep demotes.
type DeviceOfflineMessage struct {
	Type      string                        `json:"type"`
	Device    *deviceUsecase.DeviceResponse `json:"device"`
	Timestamp time.Time                     `json:"timestamp"`
}

// Liveness periodically demotes devices with stale activity to offline.
// Devices are expected to report at a shorter interval than the timeout,
// leaving margin for missed pings.
type Liveness struct {
	deviceRepo domainDevice.Repository
	eventRepo  domainEvent.Repository
	notifier   Notifier
	timeout    time.Duration
	interval   time.Duration
}

func NewLiveness(deviceRepo domainDevice.Repository, eventRepo domainEvent.Repository, notifier Notifier, timeout, interval time.Duration) *Liveness {
	return &Liveness{
		deviceRepo: deviceRepo,
		eventRepo:  eventRepo,
		notifier:   notifier,
		timeout:    timeout,
		interval:   interval,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. A failed sweep is
// logged and swallowed; the next tick always runs.
func (m *Liveness) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Info("Liveness monitor started",
		zap.Duration("interval", m.interval),
		zap.Duration("timeout", m.timeout),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Liveness monitor stopped")
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				logger.Error("Liveness sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep transitions every device whose last activity predates the timeout
// window to offline, appends a device_offline event per device and broadcasts
// the transitions. It returns the devices just demoted.
func (m *Liveness) Sweep(ctx context.Context) ([]*domainDevice.Device, error) {
	cutoff := time.Now().Add(-m.timeout)

	devices, err := m.deviceRepo.TransitionOffline(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	for _, d := range devices {
		logger.Info("Device went offline",
			zap.String("device_id", d.ID.String()),
			zap.String("name", d.Name),
			zap.Time("last_seen", d.LastSeen),
		)

		e := &domainEvent.Event{
			DeviceID: d.ID,
			Type:     domainEvent.TypeDeviceOffline,
			Details:  fmt.Sprintf("%s went offline", d.Name),
		}
		if err := m.eventRepo.Create(ctx, e); err != nil {
			// The status transition is already durable; losing the event is
			// preferable to failing the whole sweep.
			logger.Error("Failed to record offline event",
				zap.String("device_id", d.ID.String()),
				zap.Error(err),
			)
		}

		m.notifier.Broadcast(DeviceOfflineMessage{
			Type:      "device_offline",
			Device:    deviceUsecase.ToDeviceResponse(d),
			Timestamp: time.Now(),
		})
	}

	return devices, nil
}
