package event

import (
	"context"

	domainEvent "security-monitor/internal/domain/event"
	"security-monitor/internal/logger"
	appErrors "security-monitor/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultRecentLimit = 10
	maxRecentLimit     = 100
)

// Service implements the event log use cases.
type Service struct {
	eventRepo domainEvent.Repository
}

func NewService(eventRepo domainEvent.Repository) *Service {
	return &Service{eventRepo: eventRepo}
}

// Append records a new event with a server-assigned id and timestamp.
func (s *Service) Append(ctx context.Context, deviceID uuid.UUID, eventType domainEvent.Type, details string) (*EventResponse, error) {
	e := &domainEvent.Event{
		DeviceID: deviceID,
		Type:     eventType,
		Details:  details,
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to record event", err)
	}

	logger.Debug("Event recorded",
		zap.String("device_id", deviceID.String()),
		zap.String("type", string(eventType)),
	)

	return ToEventResponse(e), nil
}

// Recent returns up to limit events, newest first. The original store relied
// on insertion order for this query; the ordering here is explicit.
func (s *Service) Recent(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	events, err := s.eventRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeStorage, "Failed to list events", err)
	}

	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = *ToEventResponse(e)
	}

	return responses, nil
}
