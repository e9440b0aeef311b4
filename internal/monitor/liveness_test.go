package monitor

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	domainDevice "security-monitor/internal/domain/device"
	domainEvent "security-monitor/internal/domain/event"
	"security-monitor/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeDeviceRepo struct {
	devices       map[uuid.UUID]*domainDevice.Device
	transitionErr error
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: make(map[uuid.UUID]*domainDevice.Device)}
}

func (f *fakeDeviceRepo) add(name string, status domainDevice.Status, lastSeen time.Time) *domainDevice.Device {
	d := &domainDevice.Device{
		ID:       uuid.New(),
		Name:     name,
		Type:     "door",
		Location: "Main Entrance",
		Status:   status,
		Battery:  100,
		LastSeen: lastSeen,
	}
	f.devices[d.ID] = d
	return d
}

func (f *fakeDeviceRepo) Create(ctx context.Context, d *domainDevice.Device) error { return nil }

func (f *fakeDeviceRepo) GetByID(ctx context.Context, deviceID uuid.UUID) (*domainDevice.Device, error) {
	d, ok := f.devices[deviceID]
	if !ok {
		return nil, domainDevice.ErrDeviceNotFound
	}
	return d, nil
}

func (f *fakeDeviceRepo) List(ctx context.Context) ([]*domainDevice.Device, error) {
	out := make([]*domainDevice.Device, 0, len(f.devices))
	for _, d := range f.devices {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDeviceRepo) Update(ctx context.Context, d *domainDevice.Device) error { return nil }

func (f *fakeDeviceRepo) Delete(ctx context.Context, deviceID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeDeviceRepo) UpdateLastSeen(ctx context.Context, deviceID uuid.UUID) error { return nil }

func (f *fakeDeviceRepo) TransitionOffline(ctx context.Context, cutoff time.Time) ([]*domainDevice.Device, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	var transitioned []*domainDevice.Device
	for _, d := range f.devices {
		if d.LastSeen.Before(cutoff) && d.Status != domainDevice.StatusOffline {
			d.Status = domainDevice.StatusOffline
			d.LastUpdated = time.Now()
			transitioned = append(transitioned, d)
		}
	}
	return transitioned, nil
}

type fakeEventRepo struct {
	events    []*domainEvent.Event
	createErr error
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domainEvent.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = uuid.New()
	e.Timestamp = time.Now()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) ListRecent(ctx context.Context, limit int) ([]*domainEvent.Event, error) {
	return nil, nil
}

type fakeNotifier struct {
	messages []interface{}
}

func (f *fakeNotifier) Broadcast(message interface{}) {
	f.messages = append(f.messages, message)
}

func TestSweepDemotesStaleDevices(t *testing.T) {
	deviceRepo := newFakeDeviceRepo()
	eventRepo := &fakeEventRepo{}
	notifier := &fakeNotifier{}

	stale := deviceRepo.add("Front door", domainDevice.StatusOpen, time.Now().Add(-30*time.Minute))
	fresh := deviceRepo.add("Room Window", domainDevice.StatusClosed, time.Now())

	liveness := NewLiveness(deviceRepo, eventRepo, notifier, 20*time.Minute, time.Minute)

	demoted, err := liveness.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}

	if len(demoted) != 1 || demoted[0].ID != stale.ID {
		t.Fatalf("demoted %d devices, want exactly the stale one", len(demoted))
	}
	if deviceRepo.devices[stale.ID].Status != domainDevice.StatusOffline {
		t.Error("stale device must be offline after sweep")
	}
	if deviceRepo.devices[fresh.ID].Status != domainDevice.StatusClosed {
		t.Error("fresh device must be untouched")
	}

	if len(eventRepo.events) != 1 {
		t.Fatalf("event count = %d, want 1", len(eventRepo.events))
	}
	e := eventRepo.events[0]
	if e.Type != domainEvent.TypeDeviceOffline {
		t.Errorf("event type = %q, want device_offline", e.Type)
	}
	if e.Details != "Front door went offline" {
		t.Errorf("event details = %q", e.Details)
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(notifier.messages))
	}
	msg, ok := notifier.messages[0].(DeviceOfflineMessage)
	if !ok {
		t.Fatalf("broadcast type = %T, want DeviceOfflineMessage", notifier.messages[0])
	}
	if msg.Type != "device_offline" {
		t.Errorf("message type = %q, want device_offline", msg.Type)
	}
	if msg.Device == nil || msg.Device.ID != stale.ID {
		t.Error("broadcast must carry the demoted device")
	}
}

func TestSweepSkipsAlreadyOffline(t *testing.T) {
	deviceRepo := newFakeDeviceRepo()
	eventRepo := &fakeEventRepo{}
	notifier := &fakeNotifier{}

	deviceRepo.add("Back door", domainDevice.StatusOffline, time.Now().Add(-2*time.Hour))

	liveness := NewLiveness(deviceRepo, eventRepo, notifier, 20*time.Minute, time.Minute)

	demoted, err := liveness.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if len(demoted) != 0 {
		t.Errorf("demoted %d devices, want 0 (already offline)", len(demoted))
	}
	if len(eventRepo.events) != 0 || len(notifier.messages) != 0 {
		t.Error("no events or broadcasts expected for an idle sweep")
	}
}

func TestSweepEventFailureDoesNotAbort(t *testing.T) {
	deviceRepo := newFakeDeviceRepo()
	eventRepo := &fakeEventRepo{createErr: errors.New("disk full")}
	notifier := &fakeNotifier{}

	stale := deviceRepo.add("Front door", domainDevice.StatusOpen, time.Now().Add(-time.Hour))

	liveness := NewLiveness(deviceRepo, eventRepo, notifier, 20*time.Minute, time.Minute)

	demoted, err := liveness.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if len(demoted) != 1 {
		t.Fatalf("demoted %d devices, want 1", len(demoted))
	}
	if deviceRepo.devices[stale.ID].Status != domainDevice.StatusOffline {
		t.Error("transition must stick even when the event append fails")
	}
	if len(notifier.messages) != 1 {
		t.Error("broadcast must still go out when the event append fails")
	}
}

func TestSweepPropagatesStoreError(t *testing.T) {
	deviceRepo := newFakeDeviceRepo()
	deviceRepo.transitionErr = errors.New("connection refused")

	liveness := NewLiveness(deviceRepo, &fakeEventRepo{}, &fakeNotifier{}, 20*time.Minute, time.Minute)

	if _, err := liveness.Sweep(context.Background()); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
