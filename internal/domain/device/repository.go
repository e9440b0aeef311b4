package device

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the durable store operations for devices. Every write is
// committed synchronously before the call returns.
type Repository interface {
	Create(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, deviceID uuid.UUID) (*Device, error)
	List(ctx context.Context) ([]*Device, error)
	Update(ctx context.Context, device *Device) error
	// Delete removes the device and reports whether it existed. Events that
	// reference the device are left in place.
	Delete(ctx context.Context, deviceID uuid.UUID) (bool, error)
	// UpdateLastSeen refreshes only the activity timestamp (heartbeat path).
	UpdateLastSeen(ctx context.Context, deviceID uuid.UUID) error
	// TransitionOffline marks every device with LastSeen before cutoff and a
	// status other than offline as offline, in a single batch, and returns the
	// devices that were transitioned.
	TransitionOffline(ctx context.Context, cutoff time.Time) ([]*Device, error)
}
