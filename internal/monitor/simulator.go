package monitor

import (
	"context"
	"math/rand"
	"time"

	domainDevice "security-monitor/internal/domain/device"
	"security-monitor/internal/logger"
	deviceUsecase "security-monitor/internal/usecase/device"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Triggerer is the slice of the device service the simulator drives.
type Triggerer interface {
	Trigger(ctx context.Context, deviceID uuid.UUID, req *deviceUsecase.TriggerRequest) (*deviceUsecase.TriggerResponse, error)
}

// Simulator periodically flips a random device between open and closed to
// exercise the whole trigger pipeline in the absence of real hardware.
type Simulator struct {
	deviceRepo domainDevice.Repository
	trigger    Triggerer
	interval   time.Duration
}

func NewSimulator(deviceRepo domainDevice.Repository, trigger Triggerer, interval time.Duration) *Simulator {
	return &Simulator{
		deviceRepo: deviceRepo,
		trigger:    trigger,
		interval:   interval,
	}
}

// Run flips device states on a fixed interval until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info("Sensor simulator started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Sensor simulator stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Simulator) tick(ctx context.Context) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		logger.Error("Simulator failed to list devices", zap.Error(err))
		return
	}
	if len(devices) == 0 {
		return
	}

	d := devices[rand.Intn(len(devices))]

	newStatus := domainDevice.StatusClosed
	if rand.Intn(2) == 0 {
		newStatus = domainDevice.StatusOpen
	}
	if d.Status == newStatus {
		return
	}

	if _, err := s.trigger.Trigger(ctx, d.ID, &deviceUsecase.TriggerRequest{NewStatus: string(newStatus)}); err != nil {
		logger.Error("Simulator trigger failed",
			zap.String("device_id", d.ID.String()),
			zap.Error(err),
		)
		return
	}

	logger.Debug("Simulated state change",
		zap.String("name", d.Name),
		zap.String("new_status", string(newStatus)),
	)
}
