package monitor

import (
	"context"
	"testing"
	"time"

	domainDevice "security-monitor/internal/domain/device"
	deviceUsecase "security-monitor/internal/usecase/device"

	"github.com/google/uuid"
)

type fakeTriggerer struct {
	calls []deviceUsecase.TriggerRequest
}

func (f *fakeTriggerer) Trigger(ctx context.Context, deviceID uuid.UUID, req *deviceUsecase.TriggerRequest) (*deviceUsecase.TriggerResponse, error) {
	f.calls = append(f.calls, *req)
	return &deviceUsecase.TriggerResponse{}, nil
}

func TestTickWithNoDevices(t *testing.T) {
	trigger := &fakeTriggerer{}
	sim := NewSimulator(newFakeDeviceRepo(), trigger, time.Second)

	sim.tick(context.Background())

	if len(trigger.calls) != 0 {
		t.Errorf("trigger called %d times with no devices", len(trigger.calls))
	}
}

func TestTickNeverRepeatsCurrentStatus(t *testing.T) {
	deviceRepo := newFakeDeviceRepo()
	deviceRepo.add("Front door", domainDevice.StatusClosed, time.Now())

	trigger := &fakeTriggerer{}
	sim := NewSimulator(deviceRepo, trigger, time.Second)

	// The fake triggerer does not mutate the stored device, so the only
	// legal flip from closed is to open, every time.
	for i := 0; i < 50; i++ {
		sim.tick(context.Background())
	}

	if len(trigger.calls) == 0 {
		t.Fatal("expected at least one trigger over 50 ticks")
	}
	for _, call := range trigger.calls {
		if call.NewStatus != string(domainDevice.StatusOpen) {
			t.Fatalf("simulated flip to %q, device is already closed", call.NewStatus)
		}
	}
}
