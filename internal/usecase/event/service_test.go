package event

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	domainEvent "security-monitor/internal/domain/event"
	"security-monitor/internal/logger"
	appErrors "security-monitor/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type mockEventRepo struct {
	events    []*domainEvent.Event
	createErr error
	listErr   error

	// captured by ListRecent
	lastLimit int
}

func (m *mockEventRepo) Create(ctx context.Context, e *domainEvent.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	e.ID = uuid.New()
	e.Timestamp = time.Now()
	copied := *e
	m.events = append(m.events, &copied)
	return nil
}

func (m *mockEventRepo) ListRecent(ctx context.Context, limit int) ([]*domainEvent.Event, error) {
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domainEvent.Event, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *m.events[i]
		out = append(out, &copied)
	}
	return out, nil
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	repo := &mockEventRepo{}
	service := NewService(repo)

	deviceID := uuid.New()
	resp, err := service.Append(context.Background(), deviceID, domainEvent.TypeStatusChange, "status changed to open")
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if resp.ID == uuid.Nil {
		t.Error("expected a server-assigned id")
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected a server-assigned timestamp")
	}
	if resp.DeviceID != deviceID {
		t.Errorf("device id = %s, want %s", resp.DeviceID, deviceID)
	}
}

func TestAppendWrapsStorageError(t *testing.T) {
	repo := &mockEventRepo{createErr: errors.New("disk full")}
	service := NewService(repo)

	_, err := service.Append(context.Background(), uuid.New(), domainEvent.TypeStatusChange, "x")
	if !appErrors.HasCode(err, appErrors.CodeStorage) {
		t.Errorf("error = %v, want STORAGE_ERROR", err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	repo := &mockEventRepo{}
	service := NewService(repo)

	deviceID := uuid.New()
	for _, details := range []string{"first", "second", "third"} {
		if _, err := service.Append(context.Background(), deviceID, domainEvent.TypeStatusChange, details); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	events, err := service.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("event count = %d, want 2", len(events))
	}
	if events[0].Details != "third" || events[1].Details != "second" {
		t.Errorf("order = [%s, %s], want newest first", events[0].Details, events[1].Details)
	}
}

func TestRecentLimitClamping(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, DefaultRecentLimit},
		{"negative falls back to default", -5, DefaultRecentLimit},
		{"oversized is capped", 10000, maxRecentLimit},
		{"in range passes through", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepo{}
			service := NewService(repo)

			if _, err := service.Recent(context.Background(), tt.limit); err != nil {
				t.Fatalf("Recent returned error: %v", err)
			}
			if repo.lastLimit != tt.want {
				t.Errorf("limit passed to store = %d, want %d", repo.lastLimit, tt.want)
			}
		})
	}
}
