package event

import "context"

// Repository is append-only: no update or delete is ever exposed.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Event, error)
}
